package geography

import "sort"

// Distribution maps a location key to the number of rows that produced it.
type Distribution map[string]int

// Keys returns the location keys in ascending order.
func (d Distribution) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total returns the sum of all counts.
func (d Distribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// TweetsByLocation locates the location column of ds and counts its cleaned
// values. ErrNoLocationColumn is returned unchanged when no column matches.
func TweetsByLocation(ds *Dataset) (Distribution, error) {
	col, err := FindLocationColumn(ds.Columns())
	if err != nil {
		return nil, err
	}
	return CountLocations(ds, col)
}

// CountLocations counts the cleaned values of a known column. Missing values
// and values that clean to nothing are left out.
func CountLocations(ds *Dataset, column string) (Distribution, error) {
	values, err := ds.Values(column)
	if err != nil {
		return nil, err
	}
	counts := make(Distribution)
	for _, v := range values {
		key, ok := CleanLocation(v)
		if !ok {
			continue
		}
		counts[key]++
	}
	return counts, nil
}
