package worker

import (
	"fmt"
	"path"
	"strconv"
	"time"

	"text2phenotype.com/postag/utils"
)

// getResultsFileKey depends only on what the task asks for, so a retried
// task overwrites its previous results.
func getResultsFileKey(task *Task) string {
	subset := "all"
	if task.taggingTask.Subset != nil {
		subset = strconv.Itoa(*task.taggingTask.Subset)
	}
	hash := utils.HashStrings(task.taggingTask.Config, task.taggingTask.Split, subset)
	return path.Join(
		"processed",
		"tagging",
		task.redisKey,
		fmt.Sprintf("%016x.pos_results.json", hash),
	)
}

const RFC3339Micro = "2006-01-02T15:04:05.000000-07:00"

func getFormattedNow() *string {
	now := time.Now().UTC().Format(RFC3339Micro)
	return &now
}
