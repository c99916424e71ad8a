package observability

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// HubGauge exposes the broadcast backlog state.
type HubGauge interface {
	Subscribers() int
	Len() int
	Capacity() int
}

// RelayStats aggregates the relay counters. Every method is safe for
// concurrent use; sessions update it from their own goroutines.
type RelayStats struct {
	startedAt time.Time
	hub       HubGauge

	activeSessions    atomic.Int64
	totalSessions     atomic.Uint64
	published         atomic.Uint64
	publishFailures   atomic.Uint64
	delivered         atomic.Uint64
	echoSuppressed    atomic.Uint64
	lagEvents         atomic.Uint64
	missedMessages    atomic.Uint64
	acceptFailures    atomic.Uint64
	sessionWriteFails atomic.Uint64
}

// Snapshot is a point-in-time copy of RelayStats.
type Snapshot struct {
	Uptime          time.Duration `json:"uptime"`
	ActiveSessions  int64         `json:"active_sessions"`
	TotalSessions   uint64        `json:"total_sessions"`
	Published       uint64        `json:"published"`
	PublishFailures uint64        `json:"publish_failures"`
	Delivered       uint64        `json:"delivered"`
	EchoSuppressed  uint64        `json:"echo_suppressed"`
	LagEvents       uint64        `json:"lag_events"`
	MissedMessages  uint64        `json:"missed_messages"`
	AcceptFailures  uint64        `json:"accept_failures"`
	WriteFailures   uint64        `json:"write_failures"`
	HubSubscribers  int           `json:"hub_subscribers"`
	HubBacklog      int           `json:"hub_backlog"`
	HubCapacity     int           `json:"hub_capacity"`
	NumGoroutine    int           `json:"num_goroutine"`
}

func NewRelayStats(hub HubGauge) *RelayStats {
	return &RelayStats{startedAt: time.Now(), hub: hub}
}

func (s *RelayStats) SessionOpened() {
	s.activeSessions.Add(1)
	s.totalSessions.Add(1)
}

func (s *RelayStats) SessionClosed() {
	s.activeSessions.Add(-1)
}

func (s *RelayStats) IncrPublished()       { s.published.Add(1) }
func (s *RelayStats) IncrPublishFailures() { s.publishFailures.Add(1) }
func (s *RelayStats) IncrDelivered()       { s.delivered.Add(1) }
func (s *RelayStats) IncrEchoSuppressed()  { s.echoSuppressed.Add(1) }
func (s *RelayStats) IncrAcceptFailures()  { s.acceptFailures.Add(1) }
func (s *RelayStats) IncrWriteFailures()   { s.sessionWriteFails.Add(1) }

// RecordLag counts one lag report and the messages it skipped.
func (s *RelayStats) RecordLag(missed uint64) {
	s.lagEvents.Add(1)
	s.missedMessages.Add(missed)
}

func (s *RelayStats) Snapshot() Snapshot {
	snap := Snapshot{
		Uptime:          time.Since(s.startedAt).Truncate(time.Second),
		ActiveSessions:  s.activeSessions.Load(),
		TotalSessions:   s.totalSessions.Load(),
		Published:       s.published.Load(),
		PublishFailures: s.publishFailures.Load(),
		Delivered:       s.delivered.Load(),
		EchoSuppressed:  s.echoSuppressed.Load(),
		LagEvents:       s.lagEvents.Load(),
		MissedMessages:  s.missedMessages.Load(),
		AcceptFailures:  s.acceptFailures.Load(),
		WriteFailures:   s.sessionWriteFails.Load(),
		NumGoroutine:    runtime.NumGoroutine(),
	}
	if s.hub != nil {
		snap.HubSubscribers = s.hub.Subscribers()
		snap.HubBacklog = s.hub.Len()
		snap.HubCapacity = s.hub.Capacity()
	}
	return snap
}

type metric struct {
	name  string
	value any
}

func (snap Snapshot) metrics() []metric {
	return []metric{
		{"uptime", snap.Uptime},
		{"active sessions", snap.ActiveSessions},
		{"total sessions", snap.TotalSessions},
		{"published", snap.Published},
		{"publish failures", snap.PublishFailures},
		{"delivered", snap.Delivered},
		{"echo suppressed", snap.EchoSuppressed},
		{"lag events", snap.LagEvents},
		{"missed messages", snap.MissedMessages},
		{"accept failures", snap.AcceptFailures},
		{"write failures", snap.WriteFailures},
		{"hub subscribers", snap.HubSubscribers},
		{"hub backlog", fmt.Sprintf("%d/%d", snap.HubBacklog, snap.HubCapacity)},
		{"goroutines", snap.NumGoroutine},
	}
}

// LogArgs flattens the snapshot into slog key/value pairs.
func (snap Snapshot) LogArgs() []any {
	return lo.FlatMap(snap.metrics(), func(m metric, _ int) []any {
		return []any{strings.ReplaceAll(m.name, " ", "_"), m.value}
	})
}

// RenderTable writes the snapshot as a two-column table.
func (snap Snapshot) RenderTable(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.AppendBulk(lo.Map(snap.metrics(), func(m metric, _ int) []string {
		return []string{m.name, fmt.Sprint(m.value)}
	}))
	table.Render()
}
