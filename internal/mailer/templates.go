package mailer

import "fmt"

// WelcomeEmail renders the registration welcome message.
func WelcomeEmail(name string) (subject, html string) {
	subject = "Welcome to PSQUARE — let's get you started!"
	html = fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; margin: 0; padding: 20px; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #fff; padding: 20px; border: 1px solid #ddd; border-radius: 5px;">
    <h1 style="color: #0070f3; text-align: center;">Welcome to PSQUARE! 🎉</h1>
    <p>Hi %s,</p>
    <p>We're thrilled to have you on board. Log in any time to view your profile, track your application, and stay up to date.</p>
    <p>Best regards,<br>The PSQUARE Team</p>
    <div style="margin-top: 20px; text-align: center; font-size: 0.9em; color: #777;">&copy; PSQUARE. All rights reserved.</div>
  </div>
</body>
</html>`, name)
	return subject, html
}

// OTPEmail renders the email verification code message.
func OTPEmail(name, otp string) (subject, html string) {
	subject = "Your PSQUARE verification code"
	html = fmt.Sprintf(`<body style="font-family: Arial, sans-serif; margin: 0; padding: 0; background-color: #f0f4f8;">
  <table cellpadding="0" cellspacing="0" border="0" width="100%%"
    style="max-width: 600px; margin: 20px auto; background-color: #ffffff; border-radius: 8px;">
    <tr>
      <td style="padding: 40px 20px; text-align: center;">
        <h1 style="color: #333; font-size: 24px; margin-bottom: 10px;">Hello, %s!</h1>
        <p style="color: #666; font-size: 16px; margin-bottom: 30px;">Here's your One-Time Password (OTP)</p>
        <div style="background-color: #f8fafc; border-radius: 8px; padding: 30px; margin-bottom: 30px;">
          <div style="font-size: 36px; font-weight: bold; color: #4a90e2; letter-spacing: 5px;">%s</div>
        </div>
        <div style="color: #999; font-size: 12px; margin-top: 40px;">&copy; PSQUARE. All rights reserved.</div>
      </td>
    </tr>
  </table>
</body>`, name, otp)
	return subject, html
}
