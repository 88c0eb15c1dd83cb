package winq

// TransactionType is the locking behavior of BEGIN.
type TransactionType int

const (
	TransactionDeferred TransactionType = iota
	TransactionImmediate
	TransactionExclusive
)

// StatementBegin is a BEGIN statement.
type StatementBegin struct {
	node
	transactionType TransactionType
	explicit        bool
}

// NewStatementBegin creates BEGIN.
func NewStatementBegin() *StatementBegin {
	return &StatementBegin{node: node{kind: KindBeginStatement}}
}

// BeginImmediate creates BEGIN IMMEDIATE.
func BeginImmediate() *StatementBegin {
	return NewStatementBegin().Type(TransactionImmediate)
}

// Type sets the transaction type.
func (s *StatementBegin) Type(transactionType TransactionType) *StatementBegin {
	s.transactionType, s.explicit = transactionType, true
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementBegin) IsWriteStatement() bool {
	return false
}

// Description implements Identifier.
func (s *StatementBegin) Description() string {
	if !s.explicit {
		return "BEGIN"
	}
	switch s.transactionType {
	case TransactionImmediate:
		return "BEGIN IMMEDIATE"
	case TransactionExclusive:
		return "BEGIN EXCLUSIVE"
	default:
		return "BEGIN DEFERRED"
	}
}

// StatementCommit is a COMMIT statement.
type StatementCommit struct {
	node
}

// NewStatementCommit creates COMMIT.
func NewStatementCommit() *StatementCommit {
	return &StatementCommit{node: node{kind: KindCommitStatement}}
}

// IsWriteStatement implements Statement.
func (s *StatementCommit) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementCommit) Description() string {
	return "COMMIT"
}

// StatementRollback is a ROLLBACK statement, optionally to a savepoint.
type StatementRollback struct {
	node
	savepoint string
}

// NewStatementRollback creates ROLLBACK.
func NewStatementRollback() *StatementRollback {
	return &StatementRollback{node: node{kind: KindRollbackStatement}}
}

// RollbackTo makes the statement ROLLBACK TO savepoint.
func (s *StatementRollback) RollbackTo(savepoint string) *StatementRollback {
	s.savepoint = savepoint
	return s
}

// IsWriteStatement implements Statement.
func (s *StatementRollback) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementRollback) Description() string {
	if s.savepoint != "" {
		return "ROLLBACK TO " + s.savepoint
	}
	return "ROLLBACK"
}

// StatementSavepoint is a SAVEPOINT statement.
type StatementSavepoint struct {
	node
	name string
}

// NewStatementSavepoint creates SAVEPOINT name.
func NewStatementSavepoint(name string) *StatementSavepoint {
	return &StatementSavepoint{node: node{kind: KindSavepointStatement}, name: name}
}

// IsWriteStatement implements Statement.
func (s *StatementSavepoint) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementSavepoint) Description() string {
	return "SAVEPOINT " + s.name
}

// StatementRelease is a RELEASE statement.
type StatementRelease struct {
	node
	name string
}

// NewStatementRelease creates RELEASE name.
func NewStatementRelease(name string) *StatementRelease {
	return &StatementRelease{node: node{kind: KindReleaseStatement}, name: name}
}

// IsWriteStatement implements Statement.
func (s *StatementRelease) IsWriteStatement() bool {
	return true
}

// Description implements Identifier.
func (s *StatementRelease) Description() string {
	return "RELEASE " + s.name
}
