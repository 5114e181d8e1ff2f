package queue

import (
    "context"
    "encoding/json"
    "sort"
    "strconv"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// Aggregate health states and their HTTP mapping at the boundary.
const (
    StatusHealthy   = "healthy"   // 200
    StatusDegraded  = "degraded"  // 206
    StatusUnhealthy = "unhealthy" // 503
)

// Backlog thresholds beyond which the queue is considered degraded.
const (
    backlogDegradedAt = 1000 // waiting jobs
    failedDegradedAt  = 100  // failed jobs awaiting retry/clean
)

// Metrics reports the current job count per lifecycle state plus the
// paused flag.
type Metrics struct {
    Waiting   int64 `json:"waiting"`
    Active    int64 `json:"active"`
    Completed int64 `json:"completed"`
    Failed    int64 `json:"failed"`
    Delayed   int64 `json:"delayed"`
    Paused    bool  `json:"paused"`
}

// ComponentHealth describes one dependency of the dispatch pipeline.
type ComponentHealth struct {
    Up     bool   `json:"up"`
    Detail string `json:"detail,omitempty"`
}

// HealthReport combines broker connectivity, job-store connectivity and
// backlog state into one aggregate status.
type HealthReport struct {
    Status   string          `json:"status"`
    Broker   ComponentHealth `json:"broker"`
    JobStore ComponentHealth `json:"job_store"`
    Queue    Metrics         `json:"queue"`
}

// Pause stops the consumer from taking new jobs.  Jobs already being
// delivered finish normally.
func (q *EmailQueue) Pause(ctx context.Context) error {
    if q.rdb == nil {
        return errJobStoreDown
    }
    return q.rdb.Set(ctx, pausedKey, "1", 0).Err()
}

// Resume lets the consumer take jobs again.
func (q *EmailQueue) Resume(ctx context.Context) error {
    if q.rdb == nil {
        return errJobStoreDown
    }
    return q.rdb.Del(ctx, pausedKey).Err()
}

// Metrics returns current per-state job counts.
func (q *EmailQueue) Metrics(ctx context.Context) (Metrics, error) {
    if q.rdb == nil {
        return Metrics{}, errJobStoreDown
    }
    var m Metrics
    counts := make(map[string]int64, len(jobStates))
    for _, s := range jobStates {
        n, err := q.rdb.SCard(ctx, stateKey(s)).Result()
        if err != nil {
            return Metrics{}, err
        }
        counts[s] = n
    }
    m.Waiting = counts[StateWaiting]
    m.Active = counts[StateActive]
    m.Completed = counts[StateCompleted]
    m.Failed = counts[StateFailed]
    m.Delayed = counts[StateDelayed]
    m.Paused = isPaused(ctx, q.rdb)
    return m, nil
}

// jobAge pairs a job ID with the instant it reached a terminal state.
type jobAge struct {
    ID         string
    FinishedAt int64 // unix milliseconds; 0 when unknown
}

// expiredBefore picks up to limit job IDs whose terminal timestamp is
// at or before the cutoff.  Jobs with no recorded timestamp count as
// expired.  Oldest jobs go first so repeated cleans make progress.
func expiredBefore(entries []jobAge, cutoffMs int64, limit int) []string {
    sort.Slice(entries, func(i, j int) bool { return entries[i].FinishedAt < entries[j].FinishedAt })
    out := make([]string, 0, limit)
    for _, e := range entries {
        if limit > 0 && len(out) >= limit {
            break
        }
        if e.FinishedAt <= cutoffMs {
            out = append(out, e.ID)
        }
    }
    return out
}

// Clean removes completed/failed job records older than grace, up to
// limit entries, optionally restricted to one state.  It returns the
// removed job IDs.  Only terminal states can be cleaned.
func (q *EmailQueue) Clean(ctx context.Context, grace time.Duration, limit int, state string) ([]string, error) {
    if q.rdb == nil {
        return nil, errJobStoreDown
    }
    states := []string{StateCompleted, StateFailed}
    if state == StateCompleted || state == StateFailed {
        states = []string{state}
    }
    cutoff := time.Now().UTC().Add(-grace).UnixMilli()
    entries := make([]jobAge, 0)
    for _, s := range states {
        ids, err := q.rdb.SMembers(ctx, stateKey(s)).Result()
        if err != nil {
            return nil, err
        }
        for _, id := range ids {
            ts, err := q.rdb.HGet(ctx, jobKey(id), "finished_at").Result()
            var finished int64
            if err == nil {
                finished, _ = strconv.ParseInt(ts, 10, 64)
            }
            entries = append(entries, jobAge{ID: id, FinishedAt: finished})
        }
    }
    removed := expiredBefore(entries, cutoff, limit)
    for _, id := range removed {
        if err := dropJob(ctx, q.rdb, id); err != nil {
            return removed, err
        }
    }
    return removed, nil
}

// Retry re-enqueues a failed job under its original identifier.  It
// returns ErrJobNotFound when no record exists or the job is not in the
// failed state.
func (q *EmailQueue) Retry(ctx context.Context, jobID string) error {
    if q.rdb == nil {
        return errJobStoreDown
    }
    vals, err := q.rdb.HGetAll(ctx, jobKey(jobID)).Result()
    if err != nil {
        return err
    }
    if len(vals) == 0 || vals["state"] != StateFailed {
        return ErrJobNotFound
    }

    req, err := requestFromJob(vals)
    if err != nil {
        return err
    }

    body, err := json.Marshal(emailMessage{JobID: jobID, Email: req})
    if err != nil {
        return err
    }
    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        MessageId:    jobID,
        Body:         body,
    }
    if req.Priority != nil {
        pub.Priority = *req.Priority
    }
    q.mu.Lock()
    err = q.ch.PublishWithContext(ctx, "", DispatchQueue, false, false, pub)
    q.mu.Unlock()
    if err != nil {
        return err
    }
    return moveJobState(ctx, q.rdb, jobID, []string{StateFailed}, StateWaiting, map[string]interface{}{"error": ""})
}

// Remove deletes a job record regardless of state.  A message already
// on the broker for this job is skipped by the consumer once the record
// is gone.  Returns ErrJobNotFound when no record exists.
func (q *EmailQueue) Remove(ctx context.Context, jobID string) error {
    if q.rdb == nil {
        return errJobStoreDown
    }
    n, err := q.rdb.Exists(ctx, jobKey(jobID)).Result()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrJobNotFound
    }
    return dropJob(ctx, q.rdb, jobID)
}

// evaluateHealth folds component states into the aggregate status.  A
// dead broker means nothing can be enqueued or delivered: unhealthy.  A
// dead job store or an excessive backlog still delivers mail but
// degrades the administrative surface: degraded.
func evaluateHealth(brokerUp, storeUp bool, m Metrics) string {
    if !brokerUp {
        return StatusUnhealthy
    }
    if !storeUp || m.Waiting > backlogDegradedAt || m.Failed > failedDegradedAt {
        return StatusDegraded
    }
    return StatusHealthy
}

// HealthStatusCode maps an aggregate status to the HTTP code the
// boundary responds with.
func HealthStatusCode(status string) int {
    switch status {
    case StatusHealthy:
        return 200
    case StatusDegraded:
        return 206
    default:
        return 503
    }
}

// HealthCheck probes the broker connection and the job store and
// returns the combined report.
func (q *EmailQueue) HealthCheck(ctx context.Context) HealthReport {
    rep := HealthReport{}

    rep.Broker.Up = q.conn != nil && !q.conn.IsClosed()
    if !rep.Broker.Up {
        rep.Broker.Detail = "amqp connection closed"
    }

    if q.rdb == nil {
        rep.JobStore.Detail = "no redis client configured"
    } else if err := q.rdb.Ping(ctx).Err(); err != nil {
        rep.JobStore.Detail = err.Error()
    } else {
        rep.JobStore.Up = true
    }

    if rep.JobStore.Up {
        if m, err := q.Metrics(ctx); err == nil {
            rep.Queue = m
        } else {
            rep.JobStore.Up = false
            rep.JobStore.Detail = err.Error()
        }
    }

    rep.Status = evaluateHealth(rep.Broker.Up, rep.JobStore.Up, rep.Queue)
    return rep
}
