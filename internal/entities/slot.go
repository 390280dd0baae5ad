package entities

// PickupSlots is the fixed set of 15-minute pickup windows the canteen offers.
// The storefront presents exactly these and an order carries exactly one.
var PickupSlots = []string{
	"11:00 - 11:15", "11:15 - 11:30", "11:30 - 11:45", "11:45 - 12:00",
	"12:00 - 12:15", "12:15 - 12:30", "12:30 - 12:45", "12:45 - 13:00",
	"13:00 - 13:15", "13:15 - 13:30", "13:30 - 13:45", "13:45 - 14:00",
}

// ValidSlot reports membership in the fixed slot set.
func ValidSlot(slot string) bool {
	for _, s := range PickupSlots {
		if s == slot {
			return true
		}
	}
	return false
}
