package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"outreach-engine/internal/config"
	"outreach-engine/internal/events"
	"outreach-engine/internal/ingest"
	"outreach-engine/internal/queue"
	"outreach-engine/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	rec := events.NewSlogRecorder(slog.New(slog.NewJSONHandler(os.Stdout, nil)), cfg.Env)

	client, err := queue.Dial(ctx, cfg)
	if err != nil {
		log.Fatalf("redis connect failed: %v", err)
	}
	broker := queue.NewBroker(client, queue.Defaults(cfg.MaxJobAttempts, cfg.BackoffBase, cfg.BackoffCap))
	broker.EnsureGroups(ctx)
	s := store.New(client)

	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "outreach-engine",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Inbound trigger: normalize the dataset and enqueue into the main queue.
	r.POST("/api/external/process", func(c *gin.Context) {
		var dataset map[string]interface{}
		if err := c.ShouldBindJSON(&dataset); err != nil {
			c.JSON(http.StatusOK, gin.H{
				"action_result": "FAILED",
				"workflow_id":   fmt.Sprintf("error-%d", time.Now().UnixMilli()),
			})
			return
		}

		payload, err := ingest.Normalize(dataset, time.Now())
		if err != nil {
			c.JSON(http.StatusOK, gin.H{
				"action_result": "FAILED",
				"workflow_id":   fmt.Sprintf("error-%d", time.Now().UnixMilli()),
			})
			return
		}

		jobID, err := broker.Enqueue(c.Request.Context(), queue.Insertion{
			Queue:   queue.Main,
			JobName: "external-job",
			Payload: payload,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"action_result": "FAILED",
				"workflow_id":   payload.WorkflowID,
			})
			return
		}

		_ = s.SetStatus(c.Request.Context(), jobID, store.StatusQueued, map[string]interface{}{
			"created_at":  time.Now().UnixMilli(),
			"workflow_id": payload.WorkflowID,
		})

		c.JSON(http.StatusOK, gin.H{
			"action_result": "ENQUEUED",
			"workflow_id":   payload.WorkflowID,
		})
	})

	// Stub boundary: workflow state lives in job payloads, not in a lookup
	// table, so status queries always miss.
	r.GET("/api/external/status/:workflowId", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":       "workflow not found",
			"workflow_id": c.Param("workflowId"),
		})
	})

	// Best-effort acknowledgment only; already-enqueued jobs still execute.
	r.POST("/api/external/cancel", func(c *gin.Context) {
		var body struct {
			WorkflowID string `json:"workflowId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "workflowId is required"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"action_result": "COMPLETED",
			"workflow_id":   body.WorkflowID,
		})
	})

	// Per-job status records kept by the runtime.
	r.GET("/jobs/:id", func(c *gin.Context) {
		data, err := s.GetJob(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(data) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusOK, data)
	})

	r.GET("/dlq", func(c *gin.Context) {
		records, err := broker.DeadLetters(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, records)
	})

	rec.Record(events.Event{Kind: events.KindSystemReady})

	if err := r.Run(":" + cfg.APIPort); err != nil {
		log.Fatalf("api server failed: %v", err)
	}
}
