package exitcode

// Exit codes for the flightwatch CLI. Orchestrators (cron, systemd,
// container supervisors) can use these to decide retry strategy.
const (
	// Success - run completed, attempt recorded as success
	Success = 0

	// UsageError - missing or invalid configuration; fix config before retrying
	UsageError = 1

	// DBConnError - could not reach the attempt database
	DBConnError = 2

	// FetchFailed - attempt recorded as failed during the API fetch step;
	// usually self-heals on the next run
	FetchFailed = 3

	// StorageFailed - attempt recorded as failed during parquet/upload;
	// usually needs operator attention (credentials, bucket, schema)
	StorageFailed = 4

	// AttemptError - the attempt record could not be created or finalized,
	// or it failed for a reason outside the known categories
	AttemptError = 5
)
