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

package constants

import (
	"errors"
	"fmt"
)

// ErrValidation marks request-content failures; the API maps anything
// wrapping it to a 422 response.
var ErrValidation = errors.New("validation failed")

// Invalid builds a field-level validation error wrapping ErrValidation.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

var (
	ErrNetworkNotFound = errors.New("network not found")
	ErrNetworkExists   = errors.New("a network with this name already exists")
	ErrNetworkInUse    = errors.New("network is referenced by other objects")
	ErrAddressNotFound = errors.New("network address not found")
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrServiceExists   = errors.New("a service with this name already exists")
	ErrServiceInUse    = errors.New("service is referenced by other objects")
	ErrEntryNotFound   = errors.New("service entry not found")
)

var (
	ErrPolicyNotFound        = errors.New("policy not found")
	ErrPolicyExists          = errors.New("a policy with this name already exists")
	ErrPolicyInUse           = errors.New("policy is nested in other policies")
	ErrTermNotFound          = errors.New("policy term not found")
	ErrTermExists            = errors.New("a term with this name already exists in the policy")
	ErrDynamicPolicyNotFound = errors.New("dynamic policy not found")
	ErrDynamicPolicyExists   = errors.New("a dynamic policy with this name already exists")
	ErrNoTermsResolved       = errors.New("no terms found for dynamic policy")
	ErrCycleDetected         = errors.New("nested reference cycle detected")
)

var (
	ErrTargetNotFound = errors.New("target not found")
	ErrTargetExists   = errors.New("a target with this name already exists")
	ErrTargetInUse    = errors.New("target is referenced by deployers")
	ErrUnknownGenerator = errors.New("unknown generator kind")
)

var (
	ErrTestNotFound     = errors.New("test not found")
	ErrTestExists       = errors.New("a test with this name already exists")
	ErrTestCaseNotFound = errors.New("test case not found")
)

var (
	ErrRevisionNotFound       = errors.New("revision not found")
	ErrRevisionImmutable      = errors.New("revision is immutable")
	ErrInsufficientCoverage   = errors.New("test coverage is lower than the required 100%")
	ErrRevisionConfigNotFound = errors.New("revision config not found")
	ErrRevisionHashMismatch   = errors.New("revision config hash does not match")
)

var (
	ErrDeployerNotFound   = errors.New("deployer not found")
	ErrDeployerExists     = errors.New("a deployer with this name already exists")
	ErrNoDeployers        = errors.New("no deployers configured for the revision targets")
	ErrDeploymentNotFound = errors.New("deployment not found")
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
)
