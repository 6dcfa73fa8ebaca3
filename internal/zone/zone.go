// Package zone defines the bill-number partitions used by the festival
// committee. Each zone except the donation catch-all owns a closed,
// non-overlapping range of bill numbers.
package zone

// Zone names a bill-number partition.
type Zone string

// Donation is the catch-all zone without a bill-number range. Bill numbers
// there are assigned by hand on the physical bill books.
const Donation Zone = "donation"

// Range is a closed bill-number interval.
type Range struct {
	Start int
	End   int
}

var ordered = []Zone{
	"BILL no. 1- (1-100)", "BILL no. 2- (101-200)", "BILL no. 3- (201-300)",
	"BILL no. 4- (301-400)", "BILL no. 5- (401-500)", "BILL no. 6- (501-550)",
	"BILL no. 7- (551-600)", "BILL no. 8- (601-650)", "BILL no. 9- (651-700)",
	"BILL no. 10- (701-750)", "BILL no. 11- (751-800)", "BILL no. 12- (801-850)",
	"BILL no. 13- (851-875)", "BILL no. 14- (876-900)", "BILL no. 15- (901-925)",
	"BILL no. 16- (926-950)", "BILL no. 17- (951-975)", "BILL no. 18- (976-1000)",
	Donation,
}

var ranges = map[Zone]Range{
	"BILL no. 1- (1-100)":     {1, 100},
	"BILL no. 2- (101-200)":   {101, 200},
	"BILL no. 3- (201-300)":   {201, 300},
	"BILL no. 4- (301-400)":   {301, 400},
	"BILL no. 5- (401-500)":   {401, 500},
	"BILL no. 6- (501-550)":   {501, 550},
	"BILL no. 7- (551-600)":   {551, 600},
	"BILL no. 8- (601-650)":   {601, 650},
	"BILL no. 9- (651-700)":   {651, 700},
	"BILL no. 10- (701-750)":  {701, 750},
	"BILL no. 11- (751-800)":  {751, 800},
	"BILL no. 12- (801-850)":  {801, 850},
	"BILL no. 13- (851-875)":  {851, 875},
	"BILL no. 14- (876-900)":  {876, 900},
	"BILL no. 15- (901-925)":  {901, 925},
	"BILL no. 16- (926-950)":  {926, 950},
	"BILL no. 17- (951-975)":  {951, 975},
	"BILL no. 18- (976-1000)": {976, 1000},
}

// All returns every zone in display order, the donation zone last.
func All() []Zone {
	out := make([]Zone, len(ordered))
	copy(out, ordered)
	return out
}

// Valid reports whether z is a known zone.
func Valid(z Zone) bool {
	if z == Donation {
		return true
	}
	_, ok := ranges[z]
	return ok
}

// BillRange returns the bill-number range for z. The donation zone has none.
func BillRange(z Zone) (Range, bool) {
	r, ok := ranges[z]
	return r, ok
}

// NextBillNumber returns the lowest bill number in z's range that is not in
// used, or false when the zone has no range (donation) or the range is
// exhausted.
func NextBillNumber(z Zone, used map[int]struct{}) (int, bool) {
	r, ok := ranges[z]
	if !ok {
		return 0, false
	}
	for n := r.Start; n <= r.End; n++ {
		if _, taken := used[n]; !taken {
			return n, true
		}
	}
	return 0, false
}
