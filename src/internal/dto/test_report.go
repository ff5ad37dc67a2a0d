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

package dto

import "acl-platform/src/internal/model"

// TestCaseResult is the outcome of classifying one case against the
// expanded term list.
type TestCaseResult struct {
	Case        model.TestCase `json:"case"`
	Passed      bool           `json:"passed"`
	MatchedTerm string         `json:"matchedTerm,omitempty"`
}

// TestReport aggregates a test run: per-case results, the expanded terms no
// passing case selected, and the resulting coverage ratio.
type TestReport struct {
	Tests           []TestCaseResult `json:"tests"`
	NotMatchedTerms []string         `json:"notMatchedTerms"`
	Coverage        float64          `json:"coverage"`
}
