package model

import (
	"fmt"
	"math/rand"
	"sort"
)

// Split partitions row indexes 0..n-1 into train and test sets using a seeded
// shuffle. The same n, ratio and seed always produce the same partition, so
// fitted coefficients and reported metrics are reproducible across runs.
// There is no stratification.
func Split(n int, ratio float64, seed int64) (train, test []int, err error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, fmt.Errorf("split ratio %v out of (0,1)", ratio)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	cut := int(float64(n) * ratio)
	train = append([]int(nil), perm[:cut]...)
	test = append([]int(nil), perm[cut:]...)
	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}
