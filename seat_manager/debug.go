package seat_manager

import "fmt"

func DebugPrintSeats(msg string, sm SeatManager) {
	fmt.Printf("[%s] Seats: %d\n", msg, sm.MaxSeat())
	seats := sm.Seats()
	for i := 0; i < len(seats); i++ {
		seatPlayer := seats[i]
		if seatPlayer == nil {
			fmt.Printf("Seat %d is empty\n", i)
		} else {
			fmt.Printf("Seat %d is occupied by %s. IsIn: %t, HasChips: %t, Active: %t\n", i, seatPlayer.ID, seatPlayer.IsIn, seatPlayer.HasChips, seatPlayer.Active())
		}
	}
}
