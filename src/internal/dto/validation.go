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

import (
	"errors"
	"net/netip"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom binding validators used by the
// request types. Called once at startup.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("cidrprefix", func(fl validator.FieldLevel) bool {
		_, err := netip.ParsePrefix(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("portspec", func(fl validator.FieldLevel) bool {
		return validPortSpec(fl.Field().String())
	})
}

func validPortSpec(spec string) bool {
	inRange := func(s string) bool {
		n, err := strconv.Atoi(s)
		return err == nil && n >= 0 && n <= 65535
	}
	if low, high, ok := strings.Cut(spec, "-"); ok {
		if !inRange(low) || !inRange(high) {
			return false
		}
		lo, _ := strconv.Atoi(low)
		hi, _ := strconv.Atoi(high)
		return lo <= hi
	}
	return inRange(spec)
}

// ValidationErrors flattens a binding error into the field→message map the
// API returns with 422 responses.
func ValidationErrors(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fieldName(fe)] = messageFor(fe)
		}
		return fields
	}
	fields["body"] = err.Error()
	return fields
}

func fieldName(fe validator.FieldError) string {
	// Strip the request type prefix from the namespace, keeping nested
	// paths like "terms[0].name".
	parts := strings.SplitN(fe.Namespace(), ".", 2)
	name := fe.Field()
	if len(parts) == 2 {
		name = parts[1]
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "cidrprefix":
		return "Must be a valid CIDR"
	case "portspec":
		return "Must be a port or port range within 0-65535"
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}
