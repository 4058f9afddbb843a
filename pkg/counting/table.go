package counting

// FrequencyTable maps the canonical key of an isomorphism class to the
// number of generated graphs that fell into that class. The sum of all
// counts equals the number of samples folded in; zero-filled keys do not
// change the sum.
type FrequencyTable map[string]int64

// Add increments the count for a key.
func (t FrequencyTable) Add(key string) {
	t[key]++
}

// Merge folds other into t by keywise summation. Merging is commutative and
// associative, so partial tables may arrive in any order.
func (t FrequencyTable) Merge(other FrequencyTable) {
	for key, count := range other {
		t[key] += count
	}
}

// Total returns the sum of all counts.
func (t FrequencyTable) Total() int64 {
	var total int64
	for _, count := range t {
		total += count
	}
	return total
}

// ZeroFill inserts every key from the stream that is absent from t with a
// count of zero, so the table's key set covers the full class universe.
func (t FrequencyTable) ZeroFill(keys KeyStream) error {
	defer keys.Close()
	for keys.Next() {
		key := keys.Key()
		if _, ok := t[key]; !ok {
			t[key] = 0
		}
	}
	return keys.Err()
}

// Clone returns an independent copy of the table.
func (t FrequencyTable) Clone() FrequencyTable {
	out := make(FrequencyTable, len(t))
	for key, count := range t {
		out[key] = count
	}
	return out
}
