package worker

import (
	"text2phenotype.com/postag/s3client"
)

type s3Transactions interface {
	saveResultsFile(task *Task, result string) error
	close()
}

type s3ClientWrapper struct {
	s3Client *s3client.Client
	// shared clients are owned by the caller of New and outlive the worker.
	shared bool
}

func (wrapper *s3ClientWrapper) close() {
	if !wrapper.shared {
		wrapper.s3Client.Close()
	}
}

func (wrapper *s3ClientWrapper) saveResultsFile(task *Task, result string) error {
	_, err := wrapper.s3Client.Upload(result, getResultsFileKey(task))
	return err
}
