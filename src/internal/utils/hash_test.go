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
	"encoding/hex"
	"testing"
)

func TestConfigHash(t *testing.T) {
	config := "permit ip any any\n"

	hash := ConfigHash(config)
	if len(hash) != 32 {
		t.Fatalf("ConfigHash() length = %d, want 32 hex characters", len(hash))
	}
	if _, err := hex.DecodeString(hash); err != nil {
		t.Fatalf("ConfigHash() = %q is not valid hex: %v", hash, err)
	}

	if again := ConfigHash(config); again != hash {
		t.Errorf("ConfigHash() is not deterministic: %q != %q", again, hash)
	}
	if other := ConfigHash(config + " "); other == hash {
		t.Errorf("ConfigHash() collides for different inputs: %q", hash)
	}
	if empty := ConfigHash(""); empty == hash {
		t.Errorf("ConfigHash(\"\") should differ from non-empty input")
	}
}
