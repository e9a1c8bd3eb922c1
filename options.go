package ladder

import "github.com/denismitr/ladder/internal/database/sqlgateway"

type OptionFunc func(*Migrator) error

// IsolationLevel of the transaction every migration step runs in
type IsolationLevel = sqlgateway.ISO

const (
	IsolationDefault        IsolationLevel = sqlgateway.Default
	IsolationSerializable   IsolationLevel = sqlgateway.Serializable
	IsolationRepeatableRead IsolationLevel = sqlgateway.RepeatableRead
	IsolationReadCommitted  IsolationLevel = sqlgateway.ReadCommitted
)
