package seat_manager

const (
	UnsetSeatID = -1
)
