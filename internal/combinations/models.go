// Package combinations manages the lottery number sets players register
// against their account.
package combinations

// Combination is one played set of balls and stars belonging to a user.
type Combination struct {
	ID     int
	UserID int
	Balls  []int
	Stars  []int
}
