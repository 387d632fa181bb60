package dice

import (
	"fmt"
	"strings"
)

// RollResult contains the detailed result of a roll
type RollResult struct {
	Total    int
	Rolls    []int
	Bonus    int
	Count    int
	Sides    int
	RawTotal int
}

func (r *RollResult) String() string {
	compact := strings.ReplaceAll(fmt.Sprintf("%v", r.Rolls), " ", "")
	if r.Bonus == 0 {
		return fmt.Sprintf("%dd%d **%d** : %s", r.Count, r.Sides, r.Total, compact)
	}
	return fmt.Sprintf("%dd%d%+d **%d** : %s", r.Count, r.Sides, r.Bonus, r.Total, compact)
}
