package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"portfolio-api/internal/model"
	"portfolio-api/internal/platform/rabbitmq"
	"portfolio-api/internal/repository"
)

var errMalformedEvent = errors.New("malformed project event")

// ProjectEventWorker consumes project events. For project.deleted it removes
// any tasks still pointing at the project, which covers deletes that ran
// without a transaction and stopped halfway.
type ProjectEventWorker struct {
	conn      *amqp.Connection
	tasks     repository.TaskStore
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewProjectEventWorker(conn *amqp.Connection, tasks repository.TaskStore, queueName string) *ProjectEventWorker {
	return &ProjectEventWorker{
		conn:      conn,
		tasks:     tasks,
		queueName: queueName,
	}
}

func (w *ProjectEventWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}
	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}
	if err := ch.Qos(8, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.Handle(workerCtx, d.Body); err != nil {
					log.Printf("worker handle project event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	log.Printf("project event worker consuming %s", w.queueName)
	return nil
}

// Handle applies a single event body. Unknown event types are accepted and
// ignored.
func (w *ProjectEventWorker) Handle(ctx context.Context, body []byte) error {
	var event model.ProjectEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformedEvent, err)
	}

	switch event.Type {
	case model.EventProjectDeleted:
		if event.ProjectID == "" {
			return fmt.Errorf("%w: missing project_id", errMalformedEvent)
		}
		n, err := w.tasks.DeleteByProjectID(ctx, event.ProjectID)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Printf("worker removed %d leftover tasks of project %s", n, event.ProjectID)
		}
	}
	return nil
}

func (w *ProjectEventWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
