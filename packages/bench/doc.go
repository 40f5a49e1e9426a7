// Package bench fires one reqline statement repeatedly and reports latency
// percentiles, throughput and the status code distribution.
//
// Requests are paced by a token bucket when a rate is set and bounded by a
// concurrency semaphore. Latencies are recorded in an HDR histogram with
// microsecond precision.
package bench
