package sqltrail

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mickamy/sqltrail/internal/query"
)

// Operation is the CRUD category of a statement.
type Operation = query.Operation

const (
	OperationNone   = query.OperationNone
	OperationInsert = query.OperationInsert
	OperationSelect = query.OperationSelect
	OperationUpdate = query.OperationUpdate
	OperationDelete = query.OperationDelete
)

var (
	ErrInvalidOperation = errors.New("sqltrail: invalid operation")
	ErrMissingTables    = errors.New("sqltrail: tables are required")
	ErrMissingOperator  = errors.New("sqltrail: operator is required")
	ErrIDAssigned       = errors.New("sqltrail: metadata id already assigned")
)

// Metadata describes what a single (sub)statement did, for whom and when.
// It cannot be changed after construction apart from the identity a Sink assigns.
type Metadata struct {
	mu        sync.RWMutex
	id        string
	operation Operation
	tables    []string
	operator  Operator
	at        time.Time
}

// NewMetadata assembles a record. A zero at defaults to the current time.
func NewMetadata(op Operation, tables []string, operator *Operator, at time.Time) (*Metadata, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOperation, op)
	}
	if tables == nil {
		return nil, ErrMissingTables
	}
	if operator == nil {
		return nil, ErrMissingOperator
	}
	if at.IsZero() {
		at = time.Now()
	}
	return &Metadata{
		operation: op,
		tables:    append([]string{}, tables...),
		operator:  *operator,
		at:        at,
	}, nil
}

func (m *Metadata) ID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.id
}

func (m *Metadata) Operation() Operation { return m.operation }
func (m *Metadata) Operator() Operator   { return m.operator }
func (m *Metadata) Time() time.Time      { return m.at }

// Tables returns a copy of the referenced table names, in statement order.
func (m *Metadata) Tables() []string {
	return append([]string{}, m.tables...)
}

// AssignID sets the identity given by a Sink. It can be called once.
func (m *Metadata) AssignID(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.id != "" {
		return ErrIDAssigned
	}
	m.id = id
	return nil
}

// Map exports the record as a flat map, e.g. for encoding.
func (m *Metadata) Map() map[string]any {
	return map[string]any{
		"id":                  m.ID(),
		"date_time":           m.at.Format(time.RFC3339),
		"operation":           string(m.operation),
		"tables":              m.Tables(),
		"operator_name":       m.operator.Name,
		"operator_ip_address": m.operator.Address,
	}
}
