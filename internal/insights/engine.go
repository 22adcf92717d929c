package insights

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/wellness"
)

// MaxInsights caps how many insights a single call may return. A deliberate
// attention-budget decision: never show a user more than five at once, no
// matter how many heuristics fire.
const MaxInsights = 5

// Engine runs the four-stage insight pipeline. Stateless between calls; any
// stage with insufficient data silently contributes nothing.
type Engine struct {
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewEngine creates an insight engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// SetClock overrides the engine's notion of now.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// GenerateInsights runs every stage over the supplied collections, merges
// the results, and returns at most MaxInsights entries sorted by priority
// then confidence, both descending. The role only changes which heuristic
// branches fire, never the output shape.
func (e *Engine) GenerateInsights(vitals []wellness.VitalReading, symptoms []wellness.SymptomEntry, medications []wellness.Medication, logs []wellness.MedicationLogEntry, role Role) []ProactiveInsight {
	now := e.now()

	var all []ProactiveInsight
	all = append(all, e.trendStage(vitals, symptoms, logs, now)...)
	all = append(all, e.correlationStage(vitals, symptoms, logs, now)...)
	all = append(all, e.predictionStage(vitals, symptoms, medications, now)...)
	all = append(all, e.personalizationStage(symptoms, logs, role, now)...)

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Priority.Rank() != all[j].Priority.Rank() {
			return all[i].Priority.Rank() > all[j].Priority.Rank()
		}
		return all[i].Confidence > all[j].Confidence
	})

	if len(all) > MaxInsights {
		all = all[:MaxInsights]
	}

	e.logger.Debug("insights generated",
		zap.Int("count", len(all)),
		zap.String("role", string(role)),
	)
	return all
}

func (e *Engine) insight(kind Kind, priority Priority, title, message string, confidence float64, validFor time.Duration, now time.Time) ProactiveInsight {
	return ProactiveInsight{
		ID:          e.newID(),
		Kind:        kind,
		Priority:    priority,
		Title:       title,
		Message:     message,
		Confidence:  wellness.Clamp(confidence, 0, 1),
		ValidUntil:  now.Add(validFor),
		Actionable:  true,
		Dismissible: true,
	}
}
