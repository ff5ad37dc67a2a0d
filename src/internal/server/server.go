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

package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"acl-platform/src/config"
	"acl-platform/src/internal/auth"
	"acl-platform/src/internal/compiler"
	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/database"
	"acl-platform/src/internal/dto"
	"acl-platform/src/internal/handler"
	"acl-platform/src/internal/middleware"
	"acl-platform/src/internal/queue"
	"acl-platform/src/internal/repository"
	"acl-platform/src/internal/service"
)

type Server struct {
	router *gin.Engine
	db     *database.DB
}

// NewServer creates a server instance with all dependencies initialized.
func NewServer(cfg *config.Server, producer queue.Producer) (*Server, error) {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(cfg.DBSchemaPath); err != nil {
		return nil, err
	}

	registry, err := compiler.LoadRegistry(cfg.GeneratorProfilesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load generator profiles: %w", err)
	}

	// Repositories
	networkRepo := repository.NewNetworkRepo(db)
	serviceRepo := repository.NewServiceRepo(db)
	policyRepo := repository.NewPolicyRepo(db)
	dynamicPolicyRepo := repository.NewDynamicPolicyRepo(db)
	targetRepo := repository.NewTargetRepo(db)
	testRepo := repository.NewTestRepo(db)
	revisionRepo := repository.NewRevisionRepo(db)
	deployerRepo := repository.NewDeployerRepo(db)
	deploymentRepo := repository.NewDeploymentRepo(db)

	// Services
	resolver := service.NewResolver(networkRepo, policyRepo)
	networkService := service.NewNetworkService(networkRepo)
	serviceService := service.NewServiceService(serviceRepo)
	policyService := service.NewPolicyService(policyRepo, networkRepo, serviceRepo, targetRepo, testRepo)
	dynamicPolicyService := service.NewDynamicPolicyService(dynamicPolicyRepo,
		networkRepo, policyRepo, targetRepo, testRepo, resolver)
	targetService := service.NewTargetService(targetRepo, deployerRepo, registry)
	testService := service.NewTestService(testRepo)
	testRunner := service.NewTestRunner(networkRepo, serviceRepo,
		policyRepo, dynamicPolicyRepo, testRepo, resolver)
	revisionService := service.NewRevisionService(revisionRepo, policyRepo,
		dynamicPolicyRepo, networkRepo, serviceRepo, targetRepo,
		testRunner, resolver, compiler.New(registry))
	deployerService := service.NewDeployerService(deployerRepo, targetRepo)
	deploymentService := service.NewDeploymentService(deploymentRepo,
		deployerRepo, revisionRepo, producer)

	// Authentication
	authenticator := auth.NewLDAPAuthenticator(&cfg.LDAP)
	issuer := auth.NewTokenIssuer(&cfg.JWT, cfg.LDAP.DefaultScopes)

	// Handlers
	networkHandler := handler.NewNetworkHandler(networkService)
	serviceHandler := handler.NewServiceHandler(serviceService)
	policyHandler := handler.NewPolicyHandler(policyService, testRunner)
	dynamicPolicyHandler := handler.NewDynamicPolicyHandler(dynamicPolicyService, testRunner)
	targetHandler := handler.NewTargetHandler(targetService)
	testHandler := handler.NewTestHandler(testService)
	revisionHandler := handler.NewRevisionHandler(revisionService, deploymentService)
	deployerHandler := handler.NewDeployerHandler(deployerService)
	deploymentHandler := handler.NewDeploymentHandler(deploymentService)
	tokenHandler := handler.NewTokenHandler(authenticator, issuer)

	dto.RegisterValidators()

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes. The hash-pinned raw_config route is fetched by network
	// devices during http_copy deployments, which cannot present a token; the
	// content hash in the URL is what authorizes the read.
	router.POST("/api/v1/token", tokenHandler.IssueToken)
	router.GET("/api/v1/revisions/:revisionId/raw_config/:targetId/:hash",
		revisionHandler.GetRawConfigByHash)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(middleware.AuthConfig{
		SecretKey:   cfg.JWT.SecretKey,
		TokenIssuer: cfg.JWT.Issuer,
	}))

	read := middleware.RequireScope
	write := middleware.RequireScope

	networks := api.Group("/networks")
	{
		networks.GET("", read(constants.ScopeNetworksRead), networkHandler.ListNetworks)
		networks.POST("", write(constants.ScopeNetworksWrite), networkHandler.CreateNetwork)
		networks.GET("/:networkId", read(constants.ScopeNetworksRead), networkHandler.GetNetwork)
		networks.PUT("/:networkId", write(constants.ScopeNetworksWrite), networkHandler.UpdateNetwork)
		networks.DELETE("/:networkId", write(constants.ScopeNetworksWrite), networkHandler.DeleteNetwork)
		networks.GET("/:networkId/usage", read(constants.ScopeNetworksRead), networkHandler.GetNetworkUsage)
	}

	services := api.Group("/services")
	{
		services.GET("", read(constants.ScopeServicesRead), serviceHandler.ListServices)
		services.POST("", write(constants.ScopeServicesWrite), serviceHandler.CreateService)
		services.GET("/:serviceId", read(constants.ScopeServicesRead), serviceHandler.GetService)
		services.PUT("/:serviceId", write(constants.ScopeServicesWrite), serviceHandler.UpdateService)
		services.DELETE("/:serviceId", write(constants.ScopeServicesWrite), serviceHandler.DeleteService)
		services.GET("/:serviceId/usage", read(constants.ScopeServicesRead), serviceHandler.GetServiceUsage)
	}

	policies := api.Group("/policies")
	{
		policies.GET("", read(constants.ScopePoliciesRead), policyHandler.ListPolicies)
		policies.POST("", write(constants.ScopePoliciesWrite), policyHandler.CreatePolicy)
		policies.GET("/:policyId", read(constants.ScopePoliciesRead), policyHandler.GetPolicy)
		policies.PUT("/:policyId", write(constants.ScopePoliciesWrite), policyHandler.UpdatePolicy)
		policies.DELETE("/:policyId", write(constants.ScopePoliciesWrite), policyHandler.DeletePolicy)
		policies.GET("/:policyId/usage", read(constants.ScopePoliciesRead), policyHandler.GetPolicyUsage)
		policies.POST("/:policyId/run_tests", read(constants.ScopePoliciesRead), policyHandler.RunPolicyTests)
	}

	dynamicPolicies := api.Group("/dynamic_policies")
	{
		dynamicPolicies.GET("", read(constants.ScopePoliciesRead), dynamicPolicyHandler.ListDynamicPolicies)
		dynamicPolicies.POST("", write(constants.ScopePoliciesWrite), dynamicPolicyHandler.CreateDynamicPolicy)
		dynamicPolicies.GET("/:dynamicPolicyId", read(constants.ScopePoliciesRead), dynamicPolicyHandler.GetDynamicPolicy)
		dynamicPolicies.PUT("/:dynamicPolicyId", write(constants.ScopePoliciesWrite), dynamicPolicyHandler.UpdateDynamicPolicy)
		dynamicPolicies.DELETE("/:dynamicPolicyId", write(constants.ScopePoliciesWrite), dynamicPolicyHandler.DeleteDynamicPolicy)
		dynamicPolicies.GET("/:dynamicPolicyId/terms", read(constants.ScopePoliciesRead), dynamicPolicyHandler.GetResolvedTerms)
		dynamicPolicies.POST("/:dynamicPolicyId/run_tests", read(constants.ScopePoliciesRead), dynamicPolicyHandler.RunDynamicPolicyTests)
	}

	targets := api.Group("/targets")
	{
		targets.GET("", read(constants.ScopeTargetsRead), targetHandler.ListTargets)
		targets.POST("", write(constants.ScopeTargetsWrite), targetHandler.CreateTarget)
		targets.GET("/generators", read(constants.ScopeTargetsRead), targetHandler.ListGenerators)
		targets.GET("/:targetId", read(constants.ScopeTargetsRead), targetHandler.GetTarget)
		targets.PUT("/:targetId", write(constants.ScopeTargetsWrite), targetHandler.UpdateTarget)
		targets.DELETE("/:targetId", write(constants.ScopeTargetsWrite), targetHandler.DeleteTarget)
	}

	tests := api.Group("/tests")
	{
		tests.GET("", read(constants.ScopeTestsRead), testHandler.ListTests)
		tests.POST("", write(constants.ScopeTestsWrite), testHandler.CreateTest)
		tests.GET("/:testId", read(constants.ScopeTestsRead), testHandler.GetTest)
		tests.PUT("/:testId", write(constants.ScopeTestsWrite), testHandler.UpdateTest)
		tests.DELETE("/:testId", write(constants.ScopeTestsWrite), testHandler.DeleteTest)
		tests.GET("/:testId/cases", read(constants.ScopeTestsRead), testHandler.ListTestCases)
		tests.POST("/:testId/cases", write(constants.ScopeTestsWrite), testHandler.CreateTestCase)
		tests.GET("/:testId/cases/:caseId", read(constants.ScopeTestsRead), testHandler.GetTestCase)
		tests.PUT("/:testId/cases/:caseId", write(constants.ScopeTestsWrite), testHandler.UpdateTestCase)
		tests.DELETE("/:testId/cases/:caseId", write(constants.ScopeTestsWrite), testHandler.DeleteTestCase)
	}

	revisions := api.Group("/revisions")
	{
		revisions.GET("", read(constants.ScopeRevisionsRead), revisionHandler.ListRevisions)
		revisions.POST("", write(constants.ScopeRevisionsWrite), revisionHandler.CreateRevision)
		revisions.GET("/:revisionId", read(constants.ScopeRevisionsRead), revisionHandler.GetRevision)
		revisions.PUT("/:revisionId", write(constants.ScopeRevisionsWrite), revisionHandler.UpdateRevision)
		revisions.DELETE("/:revisionId", write(constants.ScopeRevisionsWrite), revisionHandler.DeleteRevision)
		revisions.GET("/:revisionId/raw_config", read(constants.ScopeRevisionsRead), revisionHandler.GetRawConfig)
		revisions.POST("/:revisionId/deploy", write(constants.ScopeDeploymentsWrite), revisionHandler.Deploy)
	}

	deployers := api.Group("/deployers")
	{
		deployers.GET("", read(constants.ScopeDeployersRead), deployerHandler.ListDeployers)
		deployers.POST("", write(constants.ScopeDeployersWrite), deployerHandler.CreateDeployer)
		deployers.GET("/:deployerId", read(constants.ScopeDeployersRead), deployerHandler.GetDeployer)
		deployers.PUT("/:deployerId", write(constants.ScopeDeployersWrite), deployerHandler.UpdateDeployer)
		deployers.DELETE("/:deployerId", write(constants.ScopeDeployersWrite), deployerHandler.DeleteDeployer)
	}

	deployments := api.Group("/deployments")
	{
		deployments.GET("", read(constants.ScopeDeploymentsRead), deploymentHandler.ListDeployments)
		deployments.GET("/:deploymentId", read(constants.ScopeDeploymentsRead), deploymentHandler.GetDeployment)
		deployments.DELETE("/:deploymentId", write(constants.ScopeDeploymentsWrite), deploymentHandler.DeleteDeployment)
	}

	return &Server{router: router, db: db}, nil
}

// Start starts the HTTP server on the given port.
func (s *Server) Start(port string) error {
	if port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	log.Printf("Starting server on :%s", port)
	return s.router.Run(":" + port)
}

// GetRouter returns the gin router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
