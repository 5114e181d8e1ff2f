package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "net"
    "net/smtp"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/redis/go-redis/v9"
)

// StartEmailConsumer connects to RabbitMQ, declares the dispatch queues
// and starts delivering email jobs.  When SMTP_ADDR is configured mail
// goes out over SMTP; otherwise each delivery is appended to
// logs/email.log so local environments can inspect what would have been
// sent.  The function runs a reconnect loop with exponential backoff
// and keeps running across broker restarts; processing errors are
// logged and the offending message is rejected without requeue.
func StartEmailConsumer(rdb *redis.Client) error {
    url := BrokerURL()

    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Printf("email-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeLoop(conn, rdb); err != nil {
            log.Printf("email-consumer: consume loop ended: %v; reconnecting", err)
            time.Sleep(2 * time.Second)
            continue
        }
    }
}

func consumeLoop(conn *amqp.Connection, rdb *redis.Client) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(10, 0, false); err != nil {
        log.Printf("email-consumer: set QoS failed: %v", err)
    }

    if err := declareQueues(ch); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(DispatchQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    ctx := context.Background()
    for d := range msgs {
        if isPaused(ctx, rdb) {
            // Requeue and back off; in-flight deliveries are unaffected.
            _ = d.Nack(false, true)
            time.Sleep(time.Second)
            continue
        }
        if err := handleDelivery(ctx, rdb, d.Body); err != nil {
            log.Printf("email-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

// handleDelivery renders and delivers one email job, moving its Redis
// record through active and into completed or failed.  Jobs whose
// record has been removed are skipped silently.
func handleDelivery(ctx context.Context, rdb *redis.Client, body []byte) error {
    var msg emailMessage
    if err := json.Unmarshal(body, &msg); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }

    if rdb != nil && msg.JobID != "" {
        n, err := rdb.Exists(ctx, jobKey(msg.JobID)).Result()
        if err == nil && n == 0 {
            return nil // removed by an administrator
        }
    }

    if err := moveJobState(ctx, rdb, msg.JobID, []string{StateWaiting, StateDelayed}, StateActive, nil); err != nil {
        log.Printf("email-consumer: mark active %s failed: %v", msg.JobID, err)
    }
    if rdb != nil && msg.JobID != "" {
        _ = rdb.HIncrBy(ctx, jobKey(msg.JobID), "attempts", 1).Err()
    }

    subject, text, err := Render(msg.Email.Template, msg.Email.Subject, msg.Email.Variables)
    if err == nil {
        err = deliver(msg.Email.To, subject, text, msg.Email.Attachments)
    }

    now := time.Now().UTC().UnixMilli()
    if err != nil {
        if mErr := moveJobState(ctx, rdb, msg.JobID, []string{StateActive}, StateFailed, map[string]interface{}{
            "error":       err.Error(),
            "finished_at": now,
        }); mErr != nil {
            log.Printf("email-consumer: mark failed %s failed: %v", msg.JobID, mErr)
        }
        return fmt.Errorf("deliver job %s: %w", msg.JobID, err)
    }
    if mErr := moveJobState(ctx, rdb, msg.JobID, []string{StateActive}, StateCompleted, map[string]interface{}{
        "finished_at": now,
    }); mErr != nil {
        log.Printf("email-consumer: mark completed %s failed: %v", msg.JobID, mErr)
    }
    return nil
}

// deliver sends the rendered email.  With no SMTP endpoint configured
// the delivery is written to logs/email.log, one line per message.
func deliver(to, subject, text string, attachments []Attachment) error {
    addr := os.Getenv("SMTP_ADDR")
    if addr == "" {
        return appendToLog(to, subject, text)
    }

    from := os.Getenv("SMTP_FROM")
    if from == "" {
        from = "no-reply@sport-court-booking.local"
    }
    var auth smtp.Auth
    if user := os.Getenv("SMTP_USER"); user != "" {
        host, _, err := net.SplitHostPort(addr)
        if err != nil {
            host = addr
        }
        auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASS"), host)
    }

    var b []byte
    b = append(b, fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", from, to, subject, text)...)
    for _, a := range attachments {
        // Attachments are appended as labeled base64 blocks; a full
        // MIME envelope is not worth it for the plain-text mail this
        // platform sends.
        b = append(b, fmt.Sprintf("\r\n\r\n--attachment %s (%s)--\r\n%s", a.Filename, a.ContentType, a.Content)...)
    }
    return smtp.SendMail(addr, auth, from, []string{to}, b)
}

func appendToLog(to, subject, text string) error {
    if err := os.MkdirAll("logs", 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    fpath := filepath.Join("logs", "email.log")
    f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    line := fmt.Sprintf("[%s] Email delivered | to=%s | subject=%q | body=%q\n",
        time.Now().UTC().Format(time.RFC3339), to, subject, text)
    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
