package wcdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tencent/wcdb-sub001/winq"
)

// TransactionFunc is the body of a transaction. Returning true commits,
// returning false or an error rolls back. ctx carries the transaction
// handle: database operations made with it run inside the transaction.
//
// Writes must use that ctx. The database has a single writer connection,
// held by the transaction, so a write made with a context from outside
// the transaction waits for it forever.
type TransactionFunc func(ctx context.Context, h *Handle) (bool, error)

type txContextKey struct {
	db *Database
}

// transactionHandle returns the handle of the transaction ctx runs in.
func (db *Database) transactionHandle(ctx context.Context) (*Handle, bool) {
	h, ok := ctx.Value(txContextKey{db}).(*Handle)
	if !ok || h.state != HandleAttached || h.txDepth == 0 {
		return nil, false
	}
	return h, true
}

// RunTransaction runs fn between BEGIN IMMEDIATE and COMMIT, or ROLLBACK
// when fn returns false or fails. A transaction opened while another is
// running on the handle becomes the savepoint sp_<depth>. A false return
// is not an error. The handle must be a write handle.
func (h *Handle) RunTransaction(ctx context.Context, fn TransactionFunc) (err error) {
	if !h.write {
		return h.db.report(ctx, newError(KindMisuse, "run a transaction on a read handle"))
	}
	if err := h.attach(ctx); err != nil {
		return err
	}
	depth := h.txDepth
	var begin, commit, rollback winq.Statement
	var release winq.Statement
	if depth == 0 {
		begin = winq.BeginImmediate()
		commit = winq.NewStatementCommit()
		rollback = winq.NewStatementRollback()
	} else {
		name := fmt.Sprintf("sp_%d", depth)
		begin = winq.NewStatementSavepoint(name)
		commit = winq.NewStatementRelease(name)
		rollback = winq.NewStatementRollback().RollbackTo(name)
		release = winq.NewStatementRelease(name)
	}
	if err := h.Execute(ctx, begin); err != nil {
		return err
	}
	h.txDepth++

	committed := false
	defer func() {
		if committed {
			return
		}
		h.txDepth--
		rollbackErr := h.Execute(context.WithoutCancel(ctx), rollback)
		if rollbackErr == nil && release != nil {
			rollbackErr = h.Execute(context.WithoutCancel(ctx), release)
		}
		if depth == 0 {
			recordRollback()
		}
		if recovered := recover(); recovered != nil {
			panic(recovered)
		}
		err = errors.Join(err, rollbackErr)
	}()

	ok, err := fn(context.WithValue(ctx, txContextKey{h.db}, h), h)
	if err != nil || !ok {
		return err
	}
	if err := h.Execute(ctx, commit); err != nil {
		return err
	}
	committed = true
	h.txDepth--
	if depth == 0 {
		recordCommit()
	}
	return nil
}

// RunTransaction runs fn in a transaction on a write handle. Called with
// the context of a running transaction, it nests as a savepoint on the
// same handle.
func (db *Database) RunTransaction(ctx context.Context, fn TransactionFunc) error {
	h, release, err := db.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer release()
	return h.RunTransaction(ctx, fn)
}
