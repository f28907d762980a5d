/*
Package runner drives a router from a terminal or any line-oriented stream.

Input is read line by line:

  - A line starting with "/" is a command, e.g. "/sort".
  - A line "#N" presses button N of the last keyboard shown.
  - Any other lines form a message, ended by a blank line or the end of input.

# Usage

	r := runner.NewRunner(router,
		runner.WithSessionID("console"),
		runner.WithHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
