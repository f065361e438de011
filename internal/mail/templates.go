package mail

import "fmt"

// The bodies below are deliberately simple inline-styled HTML so they
// render the same in every client. Codes expire server-side; the copy
// only states the window.

func verificationBody(code string) string {
	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
      <h2 style="color: #333;">Welcome to Budget This!</h2>
      <p>Thanks for signing up. Enter this code to verify your email address:</p>
      <div style="background-color: #f4f4f4; padding: 20px; text-align: center; margin: 20px 0;">
        <span style="font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #333;">%s</span>
      </div>
      <p>This code expires in 24 hours.</p>
      <p style="color: #666; font-size: 12px;">If you didn't create an account, you can safely ignore this email.</p>
    </div>`, code)
}

func mfaBody(code string) string {
	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
      <h2 style="color: #333;">Your Login Code</h2>
      <p>Use this code to finish signing in to Budget This:</p>
      <div style="background-color: #f4f4f4; padding: 20px; text-align: center; margin: 20px 0;">
        <span style="font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #333;">%s</span>
      </div>
      <p>This code expires in 5 minutes.</p>
      <p style="color: #666; font-size: 12px;">If you didn't try to sign in, change your password immediately.</p>
    </div>`, code)
}

func passwordResetBody(firstName, resetURL string) string {
	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
      <h2 style="color: #333;">Reset Your Password</h2>
      <p>Hi %s,</p>
      <p>We received a request to reset your Budget This password. Click the button below to choose a new one:</p>
      <div style="text-align: center; margin: 20px 0;">
        <a href="%s" style="background-color: #4f46e5; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Reset Password</a>
      </div>
      <p>This link expires in 1 hour.</p>
      <p style="color: #666; font-size: 12px;">If you didn't request a password reset, you can safely ignore this email.</p>
    </div>`, firstName, resetURL)
}
