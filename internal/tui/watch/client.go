package watch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattjoyce/usergate/internal/storage"
)

// --- Message types ---

type tickMsg time.Time

type healthMsg struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type deliveriesMsg []storage.Delivery

type errMsg error

// --- Commands ---

func tick() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchHealth polls the /healthz endpoint.
func fetchHealth(apiURL string) tea.Cmd {
	return func() tea.Msg {
		var h healthMsg
		if err := getJSON(apiURL+"/healthz", &h); err != nil {
			return errMsg(err)
		}
		return h
	}
}

// fetchDeliveries polls the /deliveries endpoint.
func fetchDeliveries(apiURL string, limit int) tea.Cmd {
	return func() tea.Msg {
		var ds []storage.Delivery
		if err := getJSON(fmt.Sprintf("%s/deliveries?limit=%d", apiURL, limit), &ds); err != nil {
			return errMsg(err)
		}
		return deliveriesMsg(ds)
	}
}

func getJSON(url string, out any) error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
