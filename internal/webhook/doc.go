// Package webhook implements the authenticated ingestion endpoint for
// identity-provider user webhooks.
//
// Deliveries arrive signed with the Svix scheme: the signed content is
// "{svix-id}.{svix-timestamp}.{body}", the signature is base64-encoded
// HMAC-SHA256 under the shared signing secret, and the svix-signature
// header may carry several space-separated "v1,<sig>" candidates.
//
// # Security Model
//
// - Signatures verified with crypto/subtle (constant-time comparison)
// - Timestamp freshness window rejects replayed deliveries
// - Body size limits enforced before any crypto work
// - No verification details leaked in responses (always a generic 400)
// - Request logging excludes payload content
// - The signing secret comes from configuration, never hardcoded
//
// # Request Flow
//
//  1. HTTP POST arrives at the configured path
//  2. Body size checked (reject with 413 if too large)
//  3. Signature verified over the exact raw body bytes (400 on failure)
//  4. Payload decoded into a typed event (400 on failure)
//  5. Event dispatched: created/updated upsert the user projection,
//     deleted removes it, unknown types are an accepted no-op
//  6. Delivery recorded in the audit log (best-effort)
//  7. 200 returned; store failures return 500 so the provider redelivers
//
// Handlers hold no cross-request state. Redeliveries are expected and safe:
// both projection mutations are idempotent by external user id.
package webhook
