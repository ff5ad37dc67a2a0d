/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package utils

const rankDigits = "0123456789abcdefghijklmnopqrstuvwxyz"
const rankBase = len(rankDigits)

// RankBetween returns a base-36 string that sorts strictly between prev and
// next, so a term can be placed between two siblings without renumbering
// them. An empty prev means "before everything", an empty next means "after
// everything".
func RankBetween(prev, next string) string {
	var result []byte
	bounded := true
	for i := 0; ; i++ {
		p := rankDigitAt(prev, i, 0)
		n := rankBase
		if bounded {
			n = rankDigitAt(next, i, rankBase)
		}
		if n-p > 1 {
			result = append(result, rankDigits[(p+n)/2])
			return string(result)
		}
		// Adjacent digits: keep prev's digit and bisect the remaining
		// space below next.
		result = append(result, rankDigits[p])
		if p != n {
			bounded = false
		}
	}
}

// RankAfter returns a rank sorting after every existing rank; appending
// terms uses it.
func RankAfter(last string) string {
	return RankBetween(last, "")
}

// SequentialRanks produces n ordered ranks for a freshly written term list.
func SequentialRanks(n int) []string {
	ranks := make([]string, n)
	last := ""
	for i := 0; i < n; i++ {
		last = RankAfter(last)
		ranks[i] = last
	}
	return ranks
}

func rankDigitAt(rank string, i int, beyond int) int {
	if i >= len(rank) {
		return beyond
	}
	for d := 0; d < rankBase; d++ {
		if rankDigits[d] == rank[i] {
			return d
		}
	}
	return beyond
}
