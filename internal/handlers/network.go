package handlers

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/novassist/nova/internal/domain"
	"github.com/novassist/nova/internal/logger"
	"github.com/novassist/nova/internal/respond"
)

// Compile-time interface check.
var _ domain.CategoryHandler = (*NetworkHandler)(nil)

const publicIPEndpoint = "https://api.ipify.org"

// NetworkHandler controls adapters and reports addressing info.
type NetworkHandler struct {
	run  Runner
	log  *logger.Logger
	http *http.Client
}

// NewNetworkHandler creates the network handler.
func NewNetworkHandler(run Runner, log *logger.Logger) *NetworkHandler {
	return &NetworkHandler{
		run:  run,
		log:  log,
		http: &http.Client{Timeout: 3 * time.Second},
	}
}

func (h *NetworkHandler) Category() domain.Category { return domain.CategoryNetwork }

// Process dispatches on the extracted slots: adapter toggles, IP
// queries, and named-network connect/disconnect.
func (h *NetworkHandler) Process(ctx context.Context, raw string, slots map[string]string) (string, error) {
	adapter := normalizeAdapter(slots["adapter"])
	state := normalizeState(slots["state"])

	switch {
	case adapter != "" && state != "":
		return h.toggle(adapter, state)
	case adapter != "":
		return fmt.Sprintf("Would you like me to turn %s on or off?", adapter), nil
	case strings.Contains(slots["info"], "ip"):
		return h.ipReport(ctx), nil
	case slots["action"] == "connect" || slots["action"] == "disconnect":
		return h.connection(slots["action"], slots["network"])
	case strings.Contains(raw, "ip address"):
		return h.ipReport(ctx), nil
	case strings.Contains(raw, "status"):
		return h.status(), nil
	}

	// Keyword-fallback commands land here without slots.
	switch {
	case strings.Contains(raw, "wifi"), strings.Contains(raw, "wi-fi"), strings.Contains(raw, "wireless"):
		return "Would you like me to turn WiFi on or off?", nil
	case strings.Contains(raw, "bluetooth"):
		return "Would you like me to turn Bluetooth on or off?", nil
	}
	return h.status(), nil
}

// toggle flips an adapter via nmcli (WiFi) or rfkill (Bluetooth).
func (h *NetworkHandler) toggle(adapter, state string) (string, error) {
	var err error
	switch adapter {
	case "WiFi":
		_, err = h.run.Run("nmcli", "radio", "wifi", state)
	case "Bluetooth":
		verb := "unblock"
		if state == "off" {
			verb = "block"
		}
		_, err = h.run.Run("rfkill", verb, "bluetooth")
	}
	if err != nil {
		h.log.Error("network: toggling %s %s: %v", adapter, state, err)
		return respond.Error(
			fmt.Sprintf("turn %s %s", adapter, state),
			"The network manager refused the request.",
		), nil
	}
	return respond.Success(fmt.Sprintf("turned %s %s", adapter, state)), nil
}

// connection joins or leaves a named WiFi network.
func (h *NetworkHandler) connection(action, network string) (string, error) {
	network = strings.TrimSpace(network)
	if network == "" {
		return respond.Clarification("connect to a specific network"), nil
	}

	var err error
	if action == "connect" {
		_, err = h.run.Run("nmcli", "connection", "up", "id", network)
	} else {
		_, err = h.run.Run("nmcli", "connection", "down", "id", network)
	}
	if err != nil {
		h.log.Error("network: %s %q: %v", action, network, err)
		return respond.Error(
			fmt.Sprintf("%s %s", action, network),
			fmt.Sprintf("I couldn't find a network called %s.", network),
		), nil
	}
	if action == "connect" {
		return respond.Success(fmt.Sprintf("connected to %s", network)), nil
	}
	return respond.Success(fmt.Sprintf("disconnected from %s", network)), nil
}

// ipReport speaks the local address, hostname, and public address.
// Each part degrades independently.
func (h *NetworkHandler) ipReport(ctx context.Context) string {
	var fields []respond.Field

	if ip := localIP(); ip != "" {
		fields = append(fields, respond.Field{Name: "Local IP", Value: ip})
	}
	if host, err := os.Hostname(); err == nil {
		fields = append(fields, respond.Field{Name: "Hostname", Value: host})
	}
	if ip := h.publicIP(ctx); ip != "" {
		fields = append(fields, respond.Field{Name: "Public IP", Value: ip})
	}

	if len(fields) == 0 {
		return respond.Error("look up your IP address", "No network information is available.")
	}
	return respond.FormatStatus(fields)
}

func (h *NetworkHandler) status() string {
	out, err := h.run.Run("nmcli", "-t", "-f", "STATE", "general")
	if err != nil {
		h.log.Debug("network: status query failed: %v", err)
		return respond.Error("check the network status", "The network manager is not responding.")
	}
	return fmt.Sprintf("The network is %s.", strings.TrimSpace(out))
}

// localIP finds the outbound interface address without sending any
// packets: a UDP "dial" only resolves routing.
func localIP() string {
	conn, err := net.Dial("udp", "10.255.255.255:1")
	if err != nil {
		return ""
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return ""
}

func (h *NetworkHandler) publicIP(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, publicIPEndpoint, nil)
	if err != nil {
		return ""
	}
	resp, err := h.http.Do(req)
	if err != nil {
		h.log.Debug("network: public IP lookup failed: %v", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(body))
}

func normalizeAdapter(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wifi", "wi-fi", "wireless":
		return "WiFi"
	case "bluetooth":
		return "Bluetooth"
	}
	return ""
}

func normalizeState(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "enable":
		return "on"
	case "off", "disable":
		return "off"
	}
	return ""
}
