package queue

import (
    "context"
    "crypto/rand"
    "encoding/hex"
    "encoding/json"
    "errors"
    "strconv"
    "time"

    "github.com/redis/go-redis/v9"
)

// Job lifecycle states.  The broker moves messages; these states are
// bookkeeping kept in Redis so the façade can answer metrics, clean,
// retry and remove without asking RabbitMQ about individual messages.
const (
    StateWaiting   = "waiting"
    StateActive    = "active"
    StateCompleted = "completed"
    StateFailed    = "failed"
    StateDelayed   = "delayed"
)

// jobStates is the fixed ordering used by metrics and state scans.
var jobStates = []string{StateWaiting, StateActive, StateCompleted, StateFailed, StateDelayed}

// ErrJobNotFound is returned by retry/remove when no job record exists
// for the identifier, or when the job is not in a retryable state.
var ErrJobNotFound = errors.New("email job not found")

// errJobStoreDown is returned by administrative operations when no
// Redis client is configured; enqueueing still works without one.
var errJobStoreDown = errors.New("email job store unavailable")

const (
    jobKeyPrefix   = "emailq:job:"
    stateKeyPrefix = "emailq:state:"
    pausedKey      = "emailq:paused"
)

func jobKey(id string) string      { return jobKeyPrefix + id }
func stateKey(state string) string { return stateKeyPrefix + state }

// emailMessage is the JSON payload published to the broker.  The job ID
// travels with the request so the consumer can update the Redis record.
type emailMessage struct {
    JobID string       `json:"job_id"`
    Email EmailRequest `json:"email"`
}

// newJobID returns an opaque 32-character hex identifier.
func newJobID() (string, error) {
    buf := make([]byte, 16)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}

// jobFields flattens a request into the Redis hash.  Everything Retry
// needs to rebuild the request must be written here: once the broker
// message is consumed, this record is the only copy of the job.
func jobFields(req EmailRequest, state string) (map[string]interface{}, error) {
    vars, err := json.Marshal(req.Variables)
    if err != nil {
        return nil, err
    }
    fields := map[string]interface{}{
        "to":         req.To,
        "template":   req.Template,
        "subject":    req.Subject,
        "variables":  string(vars),
        "state":      state,
        "attempts":   0,
        "created_at": time.Now().UTC().UnixMilli(),
    }
    if len(req.Attachments) > 0 {
        atts, err := json.Marshal(req.Attachments)
        if err != nil {
            return nil, err
        }
        fields["attachments"] = string(atts)
    }
    if req.Priority != nil {
        fields["priority"] = int(*req.Priority)
    }
    if req.SendAt != nil {
        fields["send_at"] = req.SendAt.UTC().UnixMilli()
    }
    return fields, nil
}

// requestFromJob is the inverse of jobFields, used by Retry to rebuild
// the request from a stored hash.
func requestFromJob(vals map[string]string) (EmailRequest, error) {
    req := EmailRequest{
        To:       vals["to"],
        Template: vals["template"],
        Subject:  vals["subject"],
    }
    if v := vals["variables"]; v != "" {
        if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
            return EmailRequest{}, err
        }
    }
    if v := vals["attachments"]; v != "" {
        if err := json.Unmarshal([]byte(v), &req.Attachments); err != nil {
            return EmailRequest{}, err
        }
    }
    if v := vals["priority"]; v != "" {
        if n, err := strconv.Atoi(v); err == nil && n >= 0 {
            p := uint8(n)
            req.Priority = &p
        }
    }
    return req, nil
}

// recordJob writes the job hash and adds the ID to its state set.
func recordJob(ctx context.Context, rdb *redis.Client, id string, req EmailRequest, state string) error {
    if rdb == nil {
        return nil
    }
    fields, err := jobFields(req, state)
    if err != nil {
        return err
    }
    pipe := rdb.TxPipeline()
    pipe.HSet(ctx, jobKey(id), fields)
    pipe.SAdd(ctx, stateKey(state), id)
    _, err = pipe.Exec(ctx)
    return err
}

// moveJobState transitions a job between state sets and updates the
// hash.  extra fields (error text, finished_at) are written alongside.
func moveJobState(ctx context.Context, rdb *redis.Client, id string, from []string, to string, extra map[string]interface{}) error {
    if rdb == nil {
        return nil
    }
    pipe := rdb.TxPipeline()
    for _, s := range from {
        pipe.SRem(ctx, stateKey(s), id)
    }
    pipe.SAdd(ctx, stateKey(to), id)
    fields := map[string]interface{}{"state": to}
    for k, v := range extra {
        fields[k] = v
    }
    pipe.HSet(ctx, jobKey(id), fields)
    _, err := pipe.Exec(ctx)
    return err
}

// dropJob removes a job record entirely: the hash and any state set
// membership.
func dropJob(ctx context.Context, rdb *redis.Client, id string) error {
    if rdb == nil {
        return nil
    }
    pipe := rdb.TxPipeline()
    for _, s := range jobStates {
        pipe.SRem(ctx, stateKey(s), id)
    }
    pipe.Del(ctx, jobKey(id))
    _, err := pipe.Exec(ctx)
    return err
}

// isPaused reports whether the dispatch queue has been paused by an
// administrator.  A missing Redis client means never paused.
func isPaused(ctx context.Context, rdb *redis.Client) bool {
    if rdb == nil {
        return false
    }
    v, err := rdb.Get(ctx, pausedKey).Result()
    return err == nil && v == "1"
}
