package sqltrail

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mickamy/sqltrail/internal/query"
	"github.com/mickamy/sqltrail/tree"
)

// Config defines the main configuration options for sqltrail.
type Config struct {
	Parser      Parser      // default: SQLParser falling back to DMLParser
	Sink        Sink        // receives the records of every statement; default discards
	Logger      *zap.Logger // default: no-op
	Operator    Operator    // defaults for operators not found in the context
	Dialect     Dialect     // database flavour, used for session setup
	TimeZone    string      // optional session time zone applied by Connector
	InitCommand string      // optional statement run on every new connection by Connector
	Disabled    bool        // pass statements through without deriving metadata; capture is on by default
}

// Handler is the main entry point that manages sqltrail behavior.
type Handler struct {
	cfg Config
}

// New creates a new Handler instance with sensible defaults.
func New(cfg Config) *Handler {
	if cfg.Parser == nil {
		cfg.Parser = FallbackParser(SQLParser(), DMLParser())
	}
	if cfg.Sink == nil {
		cfg.Sink = discard{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Handler{cfg: cfg}
}

// Interpret derives one record per self-contained part of t: the statement itself
// first, then each subquery depth-first. All records share operator and at; a zero
// at is replaced by the current time.
func Interpret(t *tree.Tree, operator Operator, at time.Time) ([]*Metadata, error) {
	if at.IsZero() {
		at = time.Now()
	}
	trees := tree.Flatten(t)
	records := make([]*Metadata, 0, len(trees))
	for _, ft := range trees {
		op := query.Classify(ft)
		m, err := NewMetadata(op, query.Tables(ft, op), &operator, at)
		if err != nil {
			return nil, err
		}
		records = append(records, m)
	}
	return records, nil
}

// Inspect parses stmt with the configured parser and interprets it.
func (h *Handler) Inspect(stmt string, operator Operator, at time.Time) ([]*Metadata, error) {
	t, err := h.cfg.Parser.Parse(stmt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return Interpret(t, operator, at)
}

// resolveOperator overlays the operator found in ctx on the configured defaults.
func (h *Handler) resolveOperator(ctx context.Context) Operator {
	o := h.cfg.Operator
	if fromCtx, ok := OperatorFromContext(ctx); ok {
		o = o.merge(fromCtx)
	}
	return o
}

// capture derives the records for q. Failures are logged and yield no records;
// they never affect the execution of q.
func (h *Handler) capture(ctx context.Context, q string) []*Metadata {
	if h.cfg.Disabled || extractSkip(ctx) {
		return nil
	}
	records, err := h.Inspect(q, h.resolveOperator(ctx), time.Time{})
	if err != nil {
		h.cfg.Logger.Debug("sqltrail: skipping metadata", zap.String("statement", q), zap.Error(err))
		return nil
	}
	return records
}

// deliver hands records to the sink, logging a failure instead of returning it.
func (h *Handler) deliver(ctx context.Context, records []*Metadata) {
	if len(records) == 0 {
		return
	}
	if err := h.cfg.Sink.Write(ctx, records); err != nil {
		h.cfg.Logger.Error("sqltrail: failed to write metadata", zap.Int("records", len(records)), zap.Error(err))
	}
}

func (h *Handler) record(ctx context.Context, q string) {
	h.deliver(ctx, h.capture(ctx, q))
}
