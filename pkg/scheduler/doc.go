// Package scheduler contains the polling loop that drives task execution.
//
// The scheduler owns no state of its own: it repeatedly asks the engine to
// claim and run the next queued task, sleeps a fixed interval, and repeats.
// Dependency ordering falls out of the claim ordering: the next task is
// always the one with the globally smallest (workflow creation sequence,
// step number) key, and a step's upstream steps always have smaller step
// numbers.
//
//	sched := scheduler.New(engine, scheduler.Config{PollInterval: time.Second})
//	go sched.Run(ctx)
//
// Run exactly one scheduler per store. Concurrent schedulers would race on
// task selection and on the workflow aggregate recompute.
package scheduler
