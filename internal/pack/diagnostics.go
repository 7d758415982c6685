package pack

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/annel0/blockpacks/internal/eventbus"
	"github.com/annel0/blockpacks/internal/logging"
	"github.com/annel0/blockpacks/internal/pack/packerr"
)

// Issue одна восстановленная ошибка компиляции
type Issue struct {
	Pack    string `json:"pack"`
	Object  string `json:"object"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// PackSummary сводка по одному паку
type PackSummary struct {
	Name    string         `json:"name"`
	Objects int            `json:"objects"`
	Types   map[string]int `json:"types"`
	Issues  int            `json:"issues"`
}

// Report итог компиляции каталога паков
type Report struct {
	Session   string         `json:"session"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
	Models    int            `json:"models"`
	Recipes   int            `json:"recipes"`
	Packs     []PackSummary  `json:"packs"`
	Counts    map[string]int `json:"counts"`
	Issues    []Issue        `json:"issues"`
}

// IssuesFor ошибки одного пака
func (r *Report) IssuesFor(pack string) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Pack == pack {
			out = append(out, i)
		}
	}
	return out
}

// Summary сводка пака по имени
func (r *Report) Summary(pack string) (PackSummary, bool) {
	for _, p := range r.Packs {
		if p.Name == pack {
			return p, true
		}
	}
	return PackSummary{}, false
}

// diagnostics собирает ошибки и решает, как их логировать
type diagnostics struct {
	mu      sync.Mutex
	debug   bool
	report  *Report
	metrics *Metrics
	bus     eventbus.EventBus
}

func newDiagnostics(debug bool, report *Report, metrics *Metrics, bus eventbus.EventBus) *diagnostics {
	return &diagnostics{debug: debug, report: report, metrics: metrics, bus: bus}
}

// issue фиксирует ошибку. В отладочном режиме она логируется как ошибка со стеком.
func (d *diagnostics) issue(pack, object string, err error) {
	if err == nil {
		return
	}
	kind := packerr.KindOf(err)
	msg := fmt.Sprintf("[%s] %s: %v", pack, object, err)
	if d.debug {
		logging.Error("%s\n%+v", msg, err)
	} else {
		logging.Warn("%s", msg)
	}

	issue := Issue{Pack: pack, Object: object, Kind: kind.String(), Message: err.Error()}
	d.mu.Lock()
	d.report.Issues = append(d.report.Issues, issue)
	d.report.Counts[issue.Kind]++
	d.mu.Unlock()

	d.metrics.issue(issue.Kind)
	d.publish(eventbus.TypeCompileIssue, issue)
}

// notice сообщение, которое выводится только в отладочном режиме
func (d *diagnostics) notice(format string, args ...interface{}) {
	if d.debug {
		logging.Warn(format, args...)
	}
}

func (d *diagnostics) publish(eventType string, payload any) {
	if d.bus == nil {
		return
	}
	ev, err := eventbus.NewEnvelope(eventbus.DefaultSourceName, eventType, payload)
	if err != nil {
		logging.Debug("событие %s не создано: %v", eventType, err)
		return
	}
	ev.CorrelationID = d.report.Session
	if err := d.bus.Publish(context.Background(), ev); err != nil {
		logging.Debug("событие %s не опубликовано: %v", eventType, err)
	}
}

func (d *diagnostics) issuesFor(pack string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, i := range d.report.Issues {
		if i.Pack == pack {
			n++
		}
	}
	return n
}

func (d *diagnostics) finish(started time.Time) {
	d.report.Duration = time.Since(started)
	sort.SliceStable(d.report.Packs, func(i, j int) bool { return d.report.Packs[i].Name < d.report.Packs[j].Name })
}
