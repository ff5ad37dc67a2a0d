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

// Package queue carries deployment jobs from the API process to the worker
// process over a Redis list.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"acl-platform/src/config"
	"acl-platform/src/internal/constants"
)

// Job is one queued deployment. The worker loads everything else from the
// database by deployment id.
type Job struct {
	ID           string                 `json:"id"`
	DeploymentID int64                  `json:"deploymentId"`
	Mode         constants.DeployerMode `json:"mode"`
}

// NewJob creates a job with a fresh id.
func NewJob(deploymentID int64, mode constants.DeployerMode) Job {
	return Job{ID: uuid.New().String(), DeploymentID: deploymentID, Mode: mode}
}

// Producer enqueues deployment jobs.
type Producer interface {
	Enqueue(ctx context.Context, job Job) error
}

// Consumer dequeues deployment jobs, blocking until one is available.
type Consumer interface {
	Dequeue(ctx context.Context) (*Job, error)
	Close() error
}

// RedisQueue is a Redis-list job queue: LPUSH to enqueue, BRPOP to drain,
// so jobs run in submission order.
type RedisQueue struct {
	client *redis.Client
	name   string
}

// NewRedisQueue connects to the queue Redis instance.
func NewRedisQueue(cfg *config.Queue) *RedisQueue {
	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	})
	return &RedisQueue{client: client, name: cfg.Name}
}

// Enqueue pushes one job onto the queue.
func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.name, payload).Err()
}

// Dequeue blocks until a job is available or the context is cancelled.
func (q *RedisQueue) Dequeue(ctx context.Context) (*Job, error) {
	result, err := q.client.BRPop(ctx, 0*time.Second, q.name).Result()
	if err != nil {
		return nil, err
	}
	// BRPOP returns [key, value].
	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Close releases the Redis connection.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
