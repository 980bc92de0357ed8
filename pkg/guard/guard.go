// Package guard runs one watchdog pass: assess the current links, intervene
// with a reconnect if neither the wired link nor the Wi-Fi station is up,
// then evaluate whether the reconnect took.
package guard

import (
	"context"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Outcome names how a run ended.
type Outcome string

const (
	OutcomeWiredActive       Outcome = "wired-active"
	OutcomeAlreadyAssociated Outcome = "already-associated"
	OutcomeReconnected       Outcome = "reconnected"
	OutcomeMissingNetwork    Outcome = "missing-network"
	OutcomeReconnectFailed   Outcome = "reconnect-failed"
)

// WiredChecker reports whether a wired link is active.
type WiredChecker interface {
	WiredActive(ctx context.Context) bool
}

// Station is the wireless side: status query and connect.
type Station interface {
	Associated(ctx context.Context) bool
	Connect(ctx context.Context, ssid, passphrase string)
}

// CredentialStore resolves the network passphrase.
type CredentialStore interface {
	Lookup(ctx context.Context, key string) (string, bool)
}

// Report is what a run observed.
type Report struct {
	Outcome            Outcome
	WiredActive        bool
	Associated         bool
	ReconnectAttempted bool
}

// Success reports whether the run should exit 0.
func (r Report) Success() bool {
	switch r.Outcome {
	case OutcomeWiredActive, OutcomeAlreadyAssociated, OutcomeReconnected:
		return true
	default:
		return false
	}
}

// Guard holds the adapters and the target network.
type Guard struct {
	Wired       WiredChecker
	Station     Station
	Credentials CredentialStore

	SSID          string
	CredentialKey string

	Log *zap.Logger
}

// Run performs one pass. The returned error is classified: a missing network
// name is a configuration error and a failed verification a network error,
// both exit status 1.
func (g *Guard) Run(ctx context.Context) (Report, error) {
	ctx, span := telemetry.Start(ctx, "guard.Run")
	defer span.End()

	log := g.logger()
	report := g.assess(ctx)
	span.SetAttributes(
		attribute.Bool("wired_active", report.WiredActive),
		attribute.Bool("associated", report.Associated),
	)

	switch {
	case report.WiredActive:
		log.Info("Active Ethernet connection detected, exiting")
		report.Outcome = OutcomeWiredActive
		return report, nil
	case report.Associated:
		log.Debug("Wi-Fi is connected, nothing to do")
		report.Outcome = OutcomeAlreadyAssociated
		return report, nil
	}

	log.Info("Wi-Fi is not connected, attempting reconnect")
	if err := g.intervene(ctx, &report); err != nil {
		span.SetAttributes(attribute.String("outcome", string(report.Outcome)))
		return report, err
	}

	err := g.evaluate(ctx, &report)
	span.SetAttributes(attribute.String("outcome", string(report.Outcome)))
	return report, err
}

// Status reports the current links without attempting a reconnect.
func (g *Guard) Status(ctx context.Context) Report {
	ctx, span := telemetry.Start(ctx, "guard.Status")
	defer span.End()

	report := g.assess(ctx)
	switch {
	case report.WiredActive:
		report.Outcome = OutcomeWiredActive
	case report.Associated:
		report.Outcome = OutcomeAlreadyAssociated
	}
	return report
}

// assess checks the wired link first; the station is only queried when it
// is down.
func (g *Guard) assess(ctx context.Context) Report {
	var report Report
	report.WiredActive = g.Wired.WiredActive(ctx)
	if report.WiredActive {
		return report
	}
	report.Associated = g.Station.Associated(ctx)
	return report
}

func (g *Guard) intervene(ctx context.Context, report *Report) error {
	log := g.logger()

	if g.SSID == "" {
		log.Error("Could not resolve network SSID")
		report.Outcome = OutcomeMissingNetwork
		return ng_err.NewConfigurationError("network SSID is empty",
			"set WIFI_SSID or pass --ssid")
	}
	log.Info("Resolved network SSID " + g.SSID)

	passphrase, ok := g.Credentials.Lookup(ctx, g.CredentialKey)
	if !ok {
		log.Warn("Password not found, attempting connection without password")
		passphrase = ""
	}

	report.ReconnectAttempted = true
	g.Station.Connect(ctx, g.SSID, passphrase)
	return nil
}

func (g *Guard) evaluate(ctx context.Context, report *Report) error {
	log := g.logger()

	report.Associated = g.Station.Associated(ctx)
	if report.Associated {
		log.Info("Connection restored successfully")
		report.Outcome = OutcomeReconnected
		return nil
	}

	log.Error("Failed to restore connection")
	report.Outcome = OutcomeReconnectFailed
	return ng_err.NewNetworkError("wireless station not associated after reconnect", nil,
		"check that the access point "+g.SSID+" is in range",
		"check the passphrase stored under "+g.CredentialKey)
}

func (g *Guard) logger() *zap.Logger {
	if g.Log == nil {
		return zap.NewNop()
	}
	return g.Log
}
