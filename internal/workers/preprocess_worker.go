package workers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/services"
)

const (
	DefaultStream = "tts:preprocess"
	DefaultGroup  = "preprocess-workers"
)

// StatusChannel is the pub/sub channel carrying a candidate's preprocessing progress.
func StatusChannel(candidateID string) string {
	return "preprocess:" + candidateID + ":status"
}

type StatusMessage struct {
	Type        string `json:"type"`
	CandidateID string `json:"candidate_id"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
}

// RedisQueue enqueues audio generation jobs on a Redis stream.
type RedisQueue struct {
	Redis  *redis.Client
	Stream string
}

func (q *RedisQueue) Enqueue(ctx context.Context, candidateID, language string) error {
	stream := q.Stream
	if stream == "" {
		stream = DefaultStream
	}
	return q.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"candidate_id": candidateID,
			"language":     language,
			"enqueued_at":  time.Now().UTC().Format(time.RFC3339),
		},
	}).Err()
}

type PreprocessWorkerPool struct {
	Redis      *redis.Client
	Preprocess services.PreprocessService
	NumWorkers int
	// Status defaults to a StatusBus on Redis.
	Status StatusPublisher

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
	JobTimeout     time.Duration
}

func (p *PreprocessWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Preprocess == nil {
		return errors.New("PreprocessWorkerPool missing dependency: Redis/Preprocess must be set")
	}
	if p.Stream == "" {
		p.Stream = DefaultStream
	}
	if p.Group == "" {
		p.Group = DefaultGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.JobTimeout <= 0 {
		p.JobTimeout = 2 * time.Minute
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}
	if p.Status == nil {
		p.Status = &StatusBus{Redis: p.Redis}
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *PreprocessWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    5,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *PreprocessWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	candidateID := stringValue(msg.Values, "candidate_id")
	if candidateID == "" {
		return
	}
	language := stringValue(msg.Values, "language")

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":     msg.ID,
		"candidate_id": candidateID,
	})

	p.publish(ctx, StatusMessage{CandidateID: candidateID, Status: models.PreprocessProcessing, Message: "generating audio"})

	jobCtx, cancel := context.WithTimeout(ctx, p.JobTimeout)
	defer cancel()

	start := time.Now()
	if err := p.Preprocess.GenerateAudio(jobCtx, candidateID, language); err != nil {
		if errors.Is(err, services.ErrSuperseded) {
			log.Info("questions replaced, audio left to the newer job")
			p.publish(ctx, StatusMessage{CandidateID: candidateID, Status: models.PreprocessPending, Message: "questions replaced"})
			return
		}
		log.WithError(err).Error("audio generation failed")
		p.publish(ctx, StatusMessage{CandidateID: candidateID, Status: models.PreprocessFailed, Message: "audio generation failed"})
		return
	}

	log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("audio generated")
	p.publish(ctx, StatusMessage{CandidateID: candidateID, Status: models.PreprocessReady, Message: "audio ready"})
}

func (p *PreprocessWorkerPool) publish(ctx context.Context, m StatusMessage) {
	if err := p.Status.PublishStatus(ctx, m); err != nil {
		p.Logger.WithError(err).WithField("candidate_id", m.CandidateID).Warn("status publish failed")
	}
}

func stringValue(values map[string]any, k string) string {
	v, ok := values[k]
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
