package queue

import (
    "fmt"
    "sort"
    "strings"
    "text/template"
)

// Default subjects per built-in template.  A request's subject override
// always wins.
var subjects = map[string]string{
    TemplateMagicLink:     "Your sign-in link",
    TemplateOTP:           "Your one-time code",
    TemplatePasswordReset: "Reset your password",
    TemplateVerification:  "Verify your email address",
    TemplateWelcome:       "Welcome to the courts",
}

// Plain-text bodies.  Variables come straight from the request's
// variables map.
var bodies = map[string]*template.Template{
    TemplateMagicLink: template.Must(template.New(TemplateMagicLink).Parse(
        "Hi {{.name}},\n\nUse the link below to sign in. It expires shortly and can only be used once.\n\n{{.magic_link}}\n\nIf you did not request this, you can ignore this email.\n")),
    TemplateOTP: template.Must(template.New(TemplateOTP).Parse(
        "Hi {{.name}},\n\nYour one-time code is:\n\n    {{.otp}}\n\nEnter it to continue. If you did not request a code, ignore this email.\n")),
    TemplatePasswordReset: template.Must(template.New(TemplatePasswordReset).Parse(
        "Hi {{.name}},\n\nWe received a request to reset your password. Use the link below to choose a new one:\n\n{{.reset_link}}\n\nIf this wasn't you, your password is still safe and no action is needed.\n")),
    TemplateVerification: template.Must(template.New(TemplateVerification).Parse(
        "Hi {{.name}},\n\nPlease confirm your email address by opening the link below:\n\n{{.verification_link}}\n")),
    TemplateWelcome: template.Must(template.New(TemplateWelcome).Parse(
        "Hi {{.name}},\n\nWelcome aboard! Your account is ready: find a court, pick a slot and play.{{if .login_link}}\n\nSign in here: {{.login_link}}{{end}}\n")),
}

// Render produces the subject and plain-text body for a job.  Built-in
// templates use their parsed bodies; any other template name is treated
// as a custom template whose body is either the "body" variable or a
// sorted key: value listing of the variables.
func Render(name, subjectOverride string, vars map[string]string) (string, string, error) {
    subject := subjectOverride
    if subject == "" {
        if s, ok := subjects[name]; ok {
            subject = s
        } else {
            subject = "Notification"
        }
    }

    if tpl, ok := bodies[name]; ok {
        var b strings.Builder
        if err := tpl.Execute(&b, vars); err != nil {
            return "", "", err
        }
        return subject, b.String(), nil
    }

    // Custom template: no stored body, render from the variables.
    if body, ok := vars["body"]; ok {
        return subject, body, nil
    }
    keys := make([]string, 0, len(vars))
    for k := range vars {
        keys = append(keys, k)
    }
    sort.Strings(keys)
    var b strings.Builder
    for _, k := range keys {
        fmt.Fprintf(&b, "%s: %s\n", k, vars[k])
    }
    return subject, b.String(), nil
}
