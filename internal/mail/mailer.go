// Package mail sends transactional account emails over SMTP. Messages are
// simple HTML documents with a single call-to-action button linking back to
// the web client.
package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer delivers activation and password-reset emails. ClientURL is the
// base address of the frontend; token links are built on top of it.
type Mailer struct {
	dialer    *gomail.Dialer
	from      string
	clientURL string
}

// New returns a Mailer configured for the given SMTP server.
func New(host string, port int, user, pass, clientURL string) *Mailer {
	return &Mailer{
		dialer:    gomail.NewDialer(host, port, user, pass),
		from:      user,
		clientURL: clientURL,
	}
}

// SendActivationEmail mails an account-activation link for the given token.
func (m *Mailer) SendActivationEmail(to, token string) error {
	const subject = "User Account Activation Request"
	body := emailTemplate(subject,
		`<p>This email is to verify your email account.</p>
        <p>Please click on the following button to activate your account:</p>`,
		fmt.Sprintf("%s/activation/%s", m.clientURL, token),
		"Activate Account")
	return m.send(to, subject, body)
}

// SendResetPasswordEmail mails a password-reset link for the given token.
func (m *Mailer) SendResetPasswordEmail(to, token string) error {
	const subject = "Password Reset Request"
	body := emailTemplate(subject,
		`<p>Hello there,</p>
        <p>We have received a request to reset the password for your account.</p>
        <p>If this was not you, please disregard this email. Your password will remain unchanged.</p>
        <p>To reset your password, please click the button below:</p>`,
		fmt.Sprintf("%s/reset-password/%s", m.clientURL, token),
		"Reset Password")
	return m.send(to, subject, body)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

// emailTemplate wraps the message in the shared branded layout with a
// button linking to the client.
func emailTemplate(subject, message, buttonLink, buttonText string) string {
	return fmt.Sprintf(`
        <html>
            <head>
                <style>
                    body { font-family: Arial, sans-serif; background-color: #f7f7f7; }
                    .container {
                        max-width: 600px;
                        margin: 0 auto;
                        padding: 20px;
                        background-color: #fff;
                        border-radius: 5px;
                        box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
                    }
                    h1 { color: #007bff; }
                    p { font-size: 16px; line-height: 1.6; }
                    a.button {
                        display: inline-block;
                        padding: 10px 20px;
                        background-color: #007bff;
                        color: #fff;
                        text-decoration: none;
                        border-radius: 5px;
                        margin-top: 20px;
                    }
                </style>
            </head>
            <body>
                <div class="container">
                    <h1>%s</h1>
                    %s
                    <a href="%s" class="button">%s</a>
                </div>
            </body>
        </html>
    `, subject, message, buttonLink, buttonText)
}
