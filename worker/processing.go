package worker

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/tasks"
	"text2phenotype.com/postag/utils"
)

const (
	senderName      = "postag"
	taggingWorkType = "pos_tagging"
)

type Message struct {
	WorkType string `json:"work_type"`
	RedisKey string `json:"redis_key"`
	Sender   string `json:"sender"`
	Version  string `json:"version"`
}

type Task struct {
	delivery    *amqp.Delivery
	taggingTask *tasks.TaggingTask
	message     *Message
	redisKey    string
	posLogger   *zerolog.Logger
}

func (worker *Worker) processMessage(delivery *amqp.Delivery) {
	rejectLogger := worker.posLogger.With().Str("message_id", delivery.MessageId).Logger()
	task, err := worker.createTask(delivery)
	if err != nil {
		worker.posLogger.Err(err).
			Str("message_id", delivery.MessageId).
			Str("body", string(delivery.Body)).
			Msg("Failed to create task for delivery")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.processTask(task); err != nil {
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.sendReply(task, *task.message); err != nil {
		task.posLogger.Err(err).Msg("Got error while sending message to reply queue")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.acknowledgeDelivery(delivery); err != nil {
		task.posLogger.Err(err).Msg("Failed to acknowledge delivery")
	}
	task.posLogger.Info().Msg("Finished processing RMQ message")
}

func (worker *Worker) createTask(delivery *amqp.Delivery) (*Task, error) {
	var message Message
	if err := json.Unmarshal(delivery.Body, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message, got error %w", err)
	}
	if message.WorkType != "" && message.WorkType != taggingWorkType {
		return nil, fmt.Errorf("unsupported work type %q", message.WorkType)
	}
	taggingTask, err := worker.redis.getTaggingTask(message.RedisKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query tagging task for message, got error %w", err)
	}
	taskLogger := worker.posLogger.With().Str("tid", message.RedisKey).Logger()
	return &Task{
		delivery:    delivery,
		taggingTask: taggingTask,
		redisKey:    message.RedisKey,
		message:     &message,
		posLogger:   &taskLogger,
	}, nil
}

func (worker *Worker) processTask(task *Task) error {
	shouldPerform, err := worker.shouldPerformTask(task)
	if err != nil {
		task.posLogger.Err(err).Msg("Got error while trying to decide whether to run task")
		return err
	}
	if !shouldPerform {
		return nil
	}
	if err = worker.redis.onTaskStarted(task); err != nil {
		task.posLogger.Err(err).Msg("Failed to update task info")
		return fmt.Errorf("failed to update tagging task: %w", err)
	}
	if err = worker.runPipeline(task); err != nil {
		task.posLogger.Err(err).Msg("Got error while running pipeline")
		return worker.redis.onTaskFailedWithError(task, err)
	}
	task.posLogger.Info().Msg("Saved results, marking task as complete")
	if err = worker.redis.onTaskComplete(task); err != nil {
		task.posLogger.Err(err).Msg("Got error while trying to mark task as complete")
		return err
	}
	return nil
}

func (worker *Worker) runPipeline(task *Task) (err error) {
	defer utils.RecoverWithError(&err)
	task.posLogger.Info().Msgf("Processing message from RMQ, attempt # %d", task.taggingTask.Attempts)
	response, err := worker.ppln(pipeline.Request{
		Tid:    task.redisKey,
		Config: task.taggingTask.Config,
		Split:  task.taggingTask.Split,
		Subset: task.taggingTask.Subset,
	})
	if err != nil {
		return err
	}
	buf, err := pipeline.Render(response)
	if err != nil {
		return fmt.Errorf("failed to render response: %w", err)
	}
	task.posLogger.Info().Msg("Finished pipeline, saving results to s3")
	if err = worker.s3.saveResultsFile(task, string(buf)); err != nil {
		task.posLogger.Err(err).Msg("Got error while trying to save results")
		return err
	}
	return nil
}

func (worker *Worker) shouldPerformTask(task *Task) (bool, error) {
	taggingTask := task.taggingTask
	taskLogger := task.posLogger

	if taggingTask.Status.Complete() {
		taskLogger.Info().Msg("Task is already done. (might indicate issue acking message with RMQ). Sending reply.")
		return false, nil
	}
	if taggingTask.UserCanceled {
		taskLogger.Info().Msg("Task was canceled, no need to perform it. Sending reply.")
		return false, worker.redis.onTaskCancelled(task)
	}
	if taggingTask.Attempts >= worker.config.TaskMaxRetries {
		taskLogger.Info().Msg("Tagging task has exceeded retries. Sending reply.")
		return false, worker.redis.onTaskExceededRetries(task, worker.config.TaskMaxRetries)
	}
	return true, nil
}
