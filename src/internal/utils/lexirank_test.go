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

import (
	"sort"
	"testing"
)

func TestRankBetween(t *testing.T) {
	tests := []struct {
		name string
		prev string
		next string
	}{
		{name: "open interval", prev: "", next: ""},
		{name: "before everything", prev: "", next: "i"},
		{name: "after everything", prev: "i", next: ""},
		{name: "wide gap", prev: "a", next: "z"},
		{name: "adjacent digits", prev: "a", next: "b"},
		{name: "shared prefix", prev: "ab", next: "ac"},
		{name: "next extends prev", prev: "a", next: "a1"},
		{name: "deep adjacency", prev: "azz", next: "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank := RankBetween(tt.prev, tt.next)
			if rank == "" {
				t.Fatal("RankBetween() returned an empty rank")
			}
			if tt.prev != "" && rank <= tt.prev {
				t.Errorf("RankBetween(%q, %q) = %q, not after prev", tt.prev, tt.next, rank)
			}
			if tt.next != "" && rank >= tt.next {
				t.Errorf("RankBetween(%q, %q) = %q, not before next", tt.prev, tt.next, rank)
			}
		})
	}
}

func TestRankBetweenRepeatedInsertion(t *testing.T) {
	// Repeatedly inserting between the same neighbours must keep producing
	// fresh ranks in order.
	prev, next := "a", "b"
	for i := 0; i < 50; i++ {
		rank := RankBetween(prev, next)
		if rank <= prev || rank >= next {
			t.Fatalf("iteration %d: RankBetween(%q, %q) = %q out of order", i, prev, next, rank)
		}
		prev = rank
	}
}

func TestSequentialRanks(t *testing.T) {
	ranks := SequentialRanks(40)
	if len(ranks) != 40 {
		t.Fatalf("SequentialRanks(40) returned %d ranks", len(ranks))
	}
	if !sort.StringsAreSorted(ranks) {
		t.Fatalf("SequentialRanks() not sorted: %v", ranks)
	}
	seen := make(map[string]bool)
	for _, rank := range ranks {
		if seen[rank] {
			t.Fatalf("SequentialRanks() produced duplicate rank %q", rank)
		}
		seen[rank] = true
	}
}

func TestRankAfter(t *testing.T) {
	if rank := RankAfter(""); rank == "" {
		t.Fatal("RankAfter(\"\") returned an empty rank")
	}
	last := "m"
	rank := RankAfter(last)
	if rank <= last {
		t.Errorf("RankAfter(%q) = %q, not after", last, rank)
	}
}
