package segment

// State — состояние сегмента.
//
// Машина состояний: idle -> fetching -> {fetched | errored};
// fetched/errored -> idle при инвалидации. snapshot-fresh — псевдосостояние,
// в которое сегмент попадает только при старте сессии и из которого
// навсегда выходит после первой инвалидации ключа.
type State string

const (
	StateIdle          State = "idle"
	StateSnapshotFresh State = "snapshot-fresh"
	StateFetching      State = "fetching"
	StateFetched       State = "fetched"
	StateErrored       State = "errored"
	// StateNotFound — терминальное состояние одиночной публикации:
	// повторная загрузка не поможет, только навигация.
	StateNotFound State = "not-found"
)

// Resolved сообщает, завершил ли сегмент загрузку (успешно или нет).
// Зависимые сегменты ждут именно этого.
func (s State) Resolved() bool {
	switch s {
	case StateSnapshotFresh, StateFetched, StateErrored, StateNotFound:
		return true
	default:
		return false
	}
}

// Healthy сообщает, что у сегмента есть достоверные данные.
func (s State) Healthy() bool {
	return s == StateSnapshotFresh || s == StateFetched
}

// Pending сообщает, что сегмент ещё не получил результата.
func (s State) Pending() bool {
	return s == StateIdle || s == StateFetching || s == ""
}
