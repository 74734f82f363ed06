// Package mission drives the guided sense-act-reflect-done progression a
// dashboard session walks a child through: notice the soil is dry, water
// the plant, watch the moisture recover, earn a badge.
package mission

import (
	"sort"
	"sync"
	"time"
)

type Step string

const (
	StepSense   Step = "sense"
	StepAct     Step = "act"
	StepReflect Step = "reflect"
	StepDone    Step = "done"
)

const (
	DefaultSoilThreshold = 2500
	DefaultSettleDelay   = 4 * time.Second
	DefaultBadge         = "Junior Grower"
)

type Config struct {
	// SoilThreshold is the raw soil reading above which the plant counts
	// as thirsty.
	SoilThreshold float64
	// SettleDelay is how long the reflect step lasts before the mission
	// completes. It simulates the sensor lag between watering and the
	// moisture reading catching up.
	SettleDelay time.Duration
	Badge       string
}

func (c Config) withDefaults() Config {
	if c.SoilThreshold == 0 {
		c.SoilThreshold = DefaultSoilThreshold
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.Badge == "" {
		c.Badge = DefaultBadge
	}
	return c
}

// Mission is one session's state machine. It is created fresh per session
// and never shared across sessions or devices.
type Mission struct {
	mu          sync.Mutex
	cfg         Config
	step        Step
	badges      map[string]bool
	onBadge     func(badge string)
	settleTimer *time.Timer
}

// New returns a mission starting at the sense step. onBadge, if non-nil, is
// called once per badge the moment it is awarded.
func New(cfg Config, onBadge func(badge string)) *Mission {
	return &Mission{
		cfg:     cfg.withDefaults(),
		step:    StepSense,
		badges:  make(map[string]bool),
		onBadge: onBadge,
	}
}

func (m *Mission) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// Badges returns the badges earned so far, sorted by name.
func (m *Mission) Badges() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	badges := make([]string, 0, len(m.badges))
	for badge := range m.badges {
		badges = append(badges, badge)
	}
	sort.Strings(badges)
	return badges
}

// OnReading feeds one telemetry sample into the machine. A soil reading
// above the dryness threshold moves sense to act; readings in any other
// step are ignored.
func (m *Mission) OnReading(metric string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step != StepSense {
		return
	}
	if metric != "soil" || value <= m.cfg.SoilThreshold {
		return
	}

	m.step = StepAct
}

// ActionPerformed signals that the watering action was invoked. It moves
// act to reflect and arms the settle timer; repeated signals are harmless.
func (m *Mission) ActionPerformed() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step != StepAct {
		return
	}

	m.step = StepReflect
	m.settleTimer = time.AfterFunc(m.cfg.SettleDelay, m.settle)
}

func (m *Mission) settle() {
	m.mu.Lock()
	if m.step != StepReflect {
		m.mu.Unlock()
		return
	}

	m.step = StepDone

	// the badge is awarded at most once per session
	var awarded string
	if !m.badges[m.cfg.Badge] {
		m.badges[m.cfg.Badge] = true
		awarded = m.cfg.Badge
	}
	onBadge := m.onBadge
	m.mu.Unlock()

	if awarded != "" && onBadge != nil {
		onBadge(awarded)
	}
}

// Stop cancels the settle timer. Call it on session teardown so a mission
// abandoned mid-reflect does not fire later.
func (m *Mission) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settleTimer != nil {
		m.settleTimer.Stop()
		m.settleTimer = nil
	}
}
