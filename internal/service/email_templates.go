package service

import "fmt"

func otpEmailTemplate(name, code, appName string) (subject, body string) {
	subject = fmt.Sprintf("Verify Your Account - %s", appName)
	body = fmt.Sprintf(`Hello %s,

Thank you for registering with %s. Please use the following code to verify your account:

    %s

This code will expire in 10 minutes.

If you didn't create this account, please ignore this email.

--
This is an automated email from %s. Please do not reply.`,
		name, appName, code, appName)
	return subject, body
}

func welcomeEmailTemplate(name, appName string) (subject, body string) {
	subject = fmt.Sprintf("Welcome to %s!", appName)
	body = fmt.Sprintf(`Hello %s,

Your account is verified and ready to go. Happy shopping!

--
The %s team`,
		name, appName)
	return subject, body
}
