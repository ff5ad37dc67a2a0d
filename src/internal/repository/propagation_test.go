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

package repository

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/database"
	"acl-platform/src/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates a temporary SQLite database with the full schema.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open SQLite database: %v", err)
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	schema, err := os.ReadFile(filepath.Join("..", "database", "schema.sqlite.sql"))
	if err != nil {
		t.Fatalf("Failed to read schema file: %v", err)
	}
	if _, err := sqlDB.Exec(string(schema)); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	db := &database.DB{DB: sqlDB}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreateNetwork(t *testing.T, repo NetworkRepository, network *model.Network) *model.Network {
	t.Helper()
	if err := repo.CreateNetwork(network); err != nil {
		t.Fatalf("CreateNetwork(%s) failed: %v", network.Name, err)
	}
	return network
}

func mustCreatePolicy(t *testing.T, repo PolicyRepository, policy *model.Policy) *model.Policy {
	t.Helper()
	if err := repo.CreatePolicy(policy); err != nil {
		t.Fatalf("CreatePolicy(%s) failed: %v", policy.Name, err)
	}
	return policy
}

func cidrPtr(s string) *string { return &s }

func acceptAction() *constants.PolicyAction {
	a := constants.ActionAccept
	return &a
}

// propagationFixture builds:
//
//	backbone 10.0.0.0/24
//	campus   nested{backbone}
//	guest    192.168.50.0/24 (unrelated)
//	P1 direct    term src backbone
//	P2 via-group term src campus
//	P3 wrapper   nested term -> P1
//	P4 guest     term src guest
//	DP1 filters on campus, DP2 filters on P1
func propagationFixture(t *testing.T, db *database.DB) (backboneID int64) {
	t.Helper()
	networkRepo := NewNetworkRepo(db)
	policyRepo := NewPolicyRepo(db)
	dynamicRepo := NewDynamicPolicyRepo(db)

	backbone := mustCreateNetwork(t, networkRepo, &model.Network{
		Name:      "backbone",
		Addresses: []model.NetworkAddress{{Address: cidrPtr("10.0.0.0/24")}},
	})
	campus := mustCreateNetwork(t, networkRepo, &model.Network{
		Name:      "campus",
		Addresses: []model.NetworkAddress{{NestedNetworkID: &backbone.ID}},
	})
	guest := mustCreateNetwork(t, networkRepo, &model.Network{
		Name:      "guest",
		Addresses: []model.NetworkAddress{{Address: cidrPtr("192.168.50.0/24")}},
	})

	p1 := mustCreatePolicy(t, policyRepo, &model.Policy{
		Name: "direct",
		Terms: []model.PolicyTerm{{
			Name: "backbone-out", Enabled: true, Action: acceptAction(),
			SourceNetworkIDs: []int64{backbone.ID},
		}},
	})
	mustCreatePolicy(t, policyRepo, &model.Policy{
		Name: "via-group",
		Terms: []model.PolicyTerm{{
			Name: "campus-out", Enabled: true, Action: acceptAction(),
			SourceNetworkIDs: []int64{campus.ID},
		}},
	})
	mustCreatePolicy(t, policyRepo, &model.Policy{
		Name: "wrapper",
		Terms: []model.PolicyTerm{{
			Name: "splice-direct", Enabled: true,
			NestedPolicyID: &p1.ID,
		}},
	})
	mustCreatePolicy(t, policyRepo, &model.Policy{
		Name: "guest-only",
		Terms: []model.PolicyTerm{{
			Name: "guest-out", Enabled: true, Action: acceptAction(),
			SourceNetworkIDs: []int64{guest.ID},
		}},
	})

	if err := dynamicRepo.CreateDynamicPolicy(&model.DynamicPolicy{
		Name:            "campus-dynamic",
		SourceFilterIDs: []int64{campus.ID},
	}); err != nil {
		t.Fatalf("CreateDynamicPolicy(campus-dynamic) failed: %v", err)
	}
	if err := dynamicRepo.CreateDynamicPolicy(&model.DynamicPolicy{
		Name:            "direct-dynamic",
		PolicyFilterIDs: []int64{p1.ID},
	}); err != nil {
		t.Fatalf("CreateDynamicPolicy(direct-dynamic) failed: %v", err)
	}

	return backbone.ID
}

func editedPolicies(t *testing.T, db *database.DB) map[string]bool {
	t.Helper()
	policies, err := NewPolicyRepo(db).ListPolicies(nil)
	if err != nil {
		t.Fatalf("ListPolicies failed: %v", err)
	}
	edited := make(map[string]bool, len(policies))
	for _, policy := range policies {
		edited[policy.Name] = policy.Edited
	}
	return edited
}

func editedDynamicPolicies(t *testing.T, db *database.DB) map[string]bool {
	t.Helper()
	policies, err := NewDynamicPolicyRepo(db).ListDynamicPolicies(nil)
	if err != nil {
		t.Fatalf("ListDynamicPolicies failed: %v", err)
	}
	edited := make(map[string]bool, len(policies))
	for _, policy := range policies {
		edited[policy.Name] = policy.Edited
	}
	return edited
}

func TestNetworkEditPropagation(t *testing.T) {
	db := setupTestDB(t)
	backboneID := propagationFixture(t, db)
	networkRepo := NewNetworkRepo(db)

	// Nothing is edited right after creation.
	for name, edited := range editedPolicies(t, db) {
		if edited {
			t.Errorf("policy %s edited before any mutation", name)
		}
	}

	backbone, err := networkRepo.GetNetworkByID(backboneID)
	if err != nil {
		t.Fatalf("GetNetworkByID failed: %v", err)
	}
	backbone.Addresses = append(backbone.Addresses,
		model.NetworkAddress{Address: cidrPtr("10.0.1.0/24")})
	if err := networkRepo.UpdateNetwork(backbone); err != nil {
		t.Fatalf("UpdateNetwork failed: %v", err)
	}

	want := map[string]bool{
		"direct":     true, // names backbone directly
		"via-group":  true, // names campus, which nests backbone
		"wrapper":    true, // splices direct
		"guest-only": false,
	}
	got := editedPolicies(t, db)
	for name, wantEdited := range want {
		if got[name] != wantEdited {
			t.Errorf("policy %s edited = %v, want %v", name, got[name], wantEdited)
		}
	}

	wantDynamic := map[string]bool{
		"campus-dynamic": true, // filters on campus
		"direct-dynamic": true, // filters on the now-edited direct policy
	}
	gotDynamic := editedDynamicPolicies(t, db)
	for name, wantEdited := range wantDynamic {
		if gotDynamic[name] != wantEdited {
			t.Errorf("dynamic policy %s edited = %v, want %v", name, gotDynamic[name], wantEdited)
		}
	}
}

func TestPolicyEditPropagation(t *testing.T) {
	db := setupTestDB(t)
	propagationFixture(t, db)
	policyRepo := NewPolicyRepo(db)

	direct, err := policyRepo.GetPolicyByName("direct")
	if err != nil || direct == nil {
		t.Fatalf("GetPolicyByName(direct) = %v, %v", direct, err)
	}
	direct.Comment = "tightened"
	if err := policyRepo.UpdatePolicy(direct); err != nil {
		t.Fatalf("UpdatePolicy failed: %v", err)
	}

	got := editedPolicies(t, db)
	want := map[string]bool{
		"direct":     true,
		"wrapper":    true, // splices direct
		"via-group":  false,
		"guest-only": false,
	}
	for name, wantEdited := range want {
		if got[name] != wantEdited {
			t.Errorf("policy %s edited = %v, want %v", name, got[name], wantEdited)
		}
	}

	gotDynamic := editedDynamicPolicies(t, db)
	if !gotDynamic["direct-dynamic"] {
		t.Error("dynamic policy direct-dynamic should be edited after its filtered policy changed")
	}
	if gotDynamic["campus-dynamic"] {
		t.Error("dynamic policy campus-dynamic should be untouched by a policy-only edit")
	}
}

func TestRevisionCreateClearsEditedAndFreezes(t *testing.T) {
	db := setupTestDB(t)
	backboneID := propagationFixture(t, db)
	networkRepo := NewNetworkRepo(db)
	policyRepo := NewPolicyRepo(db)
	revisionRepo := NewRevisionRepo(db)
	targetRepo := NewTargetRepo(db)

	// Dirty the policy graph first.
	backbone, err := networkRepo.GetNetworkByID(backboneID)
	if err != nil {
		t.Fatalf("GetNetworkByID failed: %v", err)
	}
	if err := networkRepo.UpdateNetwork(backbone); err != nil {
		t.Fatalf("UpdateNetwork failed: %v", err)
	}

	target := &model.Target{Name: "edge-fw", Generator: "cisco", InetMode: constants.InetModeV4}
	if err := targetRepo.CreateTarget(target); err != nil {
		t.Fatalf("CreateTarget failed: %v", err)
	}

	direct, err := policyRepo.GetPolicyByName("direct")
	if err != nil || direct == nil {
		t.Fatalf("GetPolicyByName(direct) = %v, %v", direct, err)
	}
	if !direct.Edited {
		t.Fatal("fixture policy should be edited before the revision")
	}

	revision := &model.Revision{
		Comment:       "first cut",
		PolicyID:      &direct.ID,
		JSONData:      `{"name":"direct"}`,
		ExpandedTerms: `[{"name":"backbone-out"}]`,
		Configs: []model.RevisionConfig{{
			TargetID:   target.ID,
			FilterName: "direct",
			Filename:   "direct.acl",
			Config:     "permit ip any any",
		}},
	}
	if err := revisionRepo.CreateRevision(revision); err != nil {
		t.Fatalf("CreateRevision failed: %v", err)
	}

	direct, err = policyRepo.GetPolicyByID(direct.ID)
	if err != nil {
		t.Fatalf("GetPolicyByID failed: %v", err)
	}
	if direct.Edited {
		t.Error("a successful revision should clear the edited flag")
	}

	// The frozen snapshots and config read back byte-identical.
	loaded, err := revisionRepo.GetRevisionByID(revision.ID)
	if err != nil {
		t.Fatalf("GetRevisionByID failed: %v", err)
	}
	if loaded.JSONData != revision.JSONData || loaded.ExpandedTerms != revision.ExpandedTerms {
		t.Errorf("revision snapshots changed across reads")
	}
	if len(loaded.Configs) != 1 || loaded.Configs[0].Config != "permit ip any any" {
		t.Errorf("revision config changed across reads: %+v", loaded.Configs)
	}

	config, err := revisionRepo.GetRevisionConfig(revision.ID, target.ID)
	if err != nil {
		t.Fatalf("GetRevisionConfig failed: %v", err)
	}
	if config == nil || config.Config != "permit ip any any" {
		t.Errorf("GetRevisionConfig = %+v, want stored text verbatim", config)
	}
}
