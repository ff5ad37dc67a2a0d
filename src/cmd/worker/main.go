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

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"acl-platform/src/config"
	"acl-platform/src/internal/compiler"
	"acl-platform/src/internal/database"
	"acl-platform/src/internal/queue"
	"acl-platform/src/internal/repository"
	"acl-platform/src/internal/worker"
)

func main() {
	cfg := config.GetConfig()

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	registry, err := compiler.LoadRegistry(cfg.GeneratorProfilesPath)
	if err != nil {
		log.Fatal("Failed to load generator profiles:", err)
	}

	consumer := queue.NewRedisQueue(&cfg.Queue)
	defer consumer.Close()

	w := worker.New(
		consumer,
		repository.NewDeploymentRepo(db),
		repository.NewDeployerRepo(db),
		repository.NewRevisionRepo(db),
		repository.NewTargetRepo(db),
		registry,
		cfg,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Worker consuming from queue %q", cfg.Queue.Name)
	if err := w.Run(ctx); err != nil {
		log.Fatal("Worker stopped:", err)
	}
}
