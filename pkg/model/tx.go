package model

// TxState is the state of a synchronization transaction.
type TxState string

const (
	TxPending        TxState = "pending"
	TxBackedUp       TxState = "backed_up"
	TxWriting        TxState = "writing"
	TxCommitted      TxState = "committed"
	TxRollingBack    TxState = "rolling_back"
	TxRolledBack     TxState = "rolled_back"
	TxRollbackFailed TxState = "rollback_failed"
)

// Terminal reports whether the transaction can make no further progress.
func (s TxState) Terminal() bool {
	switch s {
	case TxCommitted, TxRolledBack, TxRollbackFailed:
		return true
	}
	return false
}
