package common

const (
	// RedisStreamSchedulerTaskExecution carries task histories from the scheduler to the executor.
	RedisStreamSchedulerTaskExecution = "schedule.task.execution"

	RedisStreamGroup    = "executor-group"
	RedisStreamConsumer = "executor-consumer"

	// RedisStreamPayloadField is the stream message field holding the JSON task history.
	RedisStreamPayloadField = "payload"
)
