package tasks

import (
	"text2phenotype.com/postag/redis"
)

const TaggingDB redis.DB = 0

type TaskStatus string

const (
	TaskStatusSubmitted        TaskStatus = "submitted"
	TaskStatusStarted          TaskStatus = "started"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusCompletedSuccess TaskStatus = "completed - success"
	TaskStatusCompletedFailure TaskStatus = "completed - failure"
	TaskStatusCanceled         TaskStatus = "canceled"
)

func (s TaskStatus) Complete() bool {
	return s == TaskStatusCompletedSuccess || s == TaskStatusCompletedFailure || s == TaskStatusCanceled
}

// TaggingTask asks for one split of a corpus to be labeled with a named
// configuration.
type TaggingTask struct {
	Config         string     `json:"config"`
	Split          string     `json:"split"`
	Subset         *int       `json:"subset"`
	UserCanceled   bool       `json:"user_canceled"`
	Status         TaskStatus `json:"status"`
	Attempts       int        `json:"attempts"`
	StartedAt      *string    `json:"started_at"`
	CompletedAt    *string    `json:"completed_at"`
	ResultsFileKey string     `json:"results_file_key"`
	ErrorMessages  []string   `json:"error_messages"`
}

type TaggingTasks struct {
	client redis.Client
}

func (tasks TaggingTasks) Get(redisKey string) (*TaggingTask, error) {
	var task TaggingTask
	if err := tasks.client.Get(redisKey, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks TaggingTasks) Update(redisKey string, updateFunc func(task *TaggingTask)) error {
	var task TaggingTask
	return tasks.client.Update(redisKey, &task, func() {
		updateFunc(&task)
	})
}

type Client struct {
	Tagging TaggingTasks
}

func NewClient() (Client, error) {
	taggingClient, err := redis.NewClient(TaggingDB)
	if err != nil {
		return Client{}, err
	}
	return Client{
		Tagging: TaggingTasks{client: taggingClient},
	}, nil
}

func (client *Client) Close() {
	_ = client.Tagging.client.Close()
}
