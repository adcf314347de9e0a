package worker

import (
	"fmt"

	"text2phenotype.com/postag/tasks"
)

type redisTransactions interface {
	getTaggingTask(redisKey string) (*tasks.TaggingTask, error)
	onTaskStarted(task *Task) error
	onTaskCancelled(task *Task, errorMessages ...string) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) getTaggingTask(redisKey string) (*tasks.TaggingTask, error) {
	return wrapper.tasksClient.Tagging.Get(redisKey)
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	return wrapper.tasksClient.Tagging.Update(task.redisKey, func(taggingTask *tasks.TaggingTask) {
		taggingTask.Status = tasks.TaskStatusStarted
		taggingTask.Attempts += 1
		taggingTask.StartedAt = getFormattedNow()
		taggingTask.CompletedAt = nil
	})
}

func (wrapper *redisClientWrapper) onTaskCancelled(task *Task, errorMessages ...string) error {
	return wrapper.tasksClient.Tagging.Update(task.redisKey, func(taggingTask *tasks.TaggingTask) {
		taggingTask.Status = tasks.TaskStatusCanceled
		taggingTask.StartedAt = getFormattedNow()
		taggingTask.CompletedAt = getFormattedNow()
		taggingTask.Attempts += 1
		taggingTask.ErrorMessages = append(taggingTask.ErrorMessages, errorMessages...)
	})
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	return wrapper.tasksClient.Tagging.Update(task.redisKey, func(taggingTask *tasks.TaggingTask) {
		taggingTask.Status = tasks.TaskStatusCompletedFailure
		taggingTask.StartedAt = getFormattedNow()
		taggingTask.CompletedAt = getFormattedNow()
		taggingTask.Attempts += 1
		taggingTask.ErrorMessages = append(
			taggingTask.ErrorMessages,
			fmt.Sprintf(
				"Task has exceeded retries. (Attempts: %d, max retries: %d )",
				taggingTask.Attempts,
				maxRetries,
			),
		)
	})
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Tagging.Update(task.redisKey, func(taggingTask *tasks.TaggingTask) {
		taggingTask.Status = tasks.TaskStatusFailed
		taggingTask.CompletedAt = getFormattedNow()
		taggingTask.ErrorMessages = append(taggingTask.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task) error {
	return wrapper.tasksClient.Tagging.Update(task.redisKey, func(taggingTask *tasks.TaggingTask) {
		if !taggingTask.Status.Complete() {
			taggingTask.Status = tasks.TaskStatusCompletedSuccess
		}
		taggingTask.CompletedAt = getFormattedNow()
		taggingTask.ResultsFileKey = getResultsFileKey(task)
	})
}
