package queue

// Role labels a checked-in player relative to the active game window.
type Role string

const (
	RoleHome   Role = "HOME"
	RoleAway   Role = "AWAY"
	RoleNextUp Role = "NEXT_UP"
)

// Classify maps an absolute queue position onto HOME, AWAY or NEXT_UP.
// The active window spans 2*playersPerTeam positions starting at
// currentQueuePosition: the first half is HOME, the second half AWAY,
// everything behind it NEXT_UP.
func Classify(queuePosition, currentQueuePosition, playersPerTeam int) Role {
	relative := queuePosition - currentQueuePosition + 1
	switch {
	case relative >= 1 && relative <= playersPerTeam:
		return RoleHome
	case relative > playersPerTeam && relative <= 2*playersPerTeam:
		return RoleAway
	default:
		return RoleNextUp
	}
}

// WindowSize returns the number of positions covered by one game window.
func WindowSize(playersPerTeam int) int {
	return 2 * playersPerTeam
}

// NextUpStart returns the first position behind the active window.
func NextUpStart(currentQueuePosition, playersPerTeam int) int {
	return currentQueuePosition + WindowSize(playersPerTeam)
}
