/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type SendEmailConfig struct {
	DbPath       string
	User         string
	From         string
	To           string
	DryRun       bool
	SMTPUsername string
	SMTPPassword string
	Start        time.Time
	End          time.Time
}

var emailCmd = &cobra.Command{
	Use:   "email <address> [date] [date]",
	Short: "Emails the chart dataset",
	Long: `Builds the bar-chart-race dataset and emails it as a CSV attachment.
Optional date arguments restrict the event window (e.g. '2023' or '2023-01 2023-06').`,
	Args: cobra.RangeArgs(1, 3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		start, end, err := parseDateRangeFromArgs(args[1:])
		if err != nil {
			fmt.Printf("Error parsing dates: %v\n", err)
			os.Exit(1)
		}

		config := SendEmailConfig{
			DbPath:       viper.GetString("database"),
			User:         viper.GetString("user"),
			From:         viper.GetString("from"),
			To:           args[0],
			DryRun:       viper.GetBool("dryRun"),
			SMTPUsername: viper.GetString("smtp_username"),
			SMTPPassword: viper.GetString("smtp_password"),
			Start:        start,
			End:          end,
		}
		err = sendChartEmail(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))

	var from string
	emailCmd.Flags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", emailCmd.Flags().Lookup("from"))
}

func sendChartEmail(config SendEmailConfig) error {
	csvBuf := new(bytes.Buffer)
	summary, err := buildChart(csvBuf, config.DbPath, config.User, config.Start, config.End)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Chart race dataset for %s", config.User)
	body := fmt.Sprintf("Attached: monthly ranked cumulative-play dataset for %s.\n", config.User)
	if summary.Count > 0 {
		body += summary.String() + "\n"
	}

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n%s\n", subject, body, csvBuf.String())
		return nil
	}

	if config.SMTPUsername == "" || config.SMTPPassword == "" {
		return fmt.Errorf("smtp_username and smtp_password must be set in order to send emails")
	}

	const boundary = "scrobble-race-attachment"
	msg := "From: scrobble-race <" + config.From + ">\r\n" +
		"To: " + config.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=\"" + boundary + "\"\r\n" +
		"\r\n" +
		"--" + boundary + "\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		body + "\r\n" +
		"--" + boundary + "\r\n" +
		"Content-Type: text/csv\r\n" +
		"Content-Disposition: attachment; filename=\"chart-race.csv\"\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		base64.StdEncoding.EncodeToString(csvBuf.Bytes()) + "\r\n" +
		"--" + boundary + "--\r\n"

	auth := smtp.PlainAuth("", config.SMTPUsername, config.SMTPPassword, "smtp.gmail.com")
	err = smtp.SendMail("smtp.gmail.com:587", auth, config.From, []string{config.To}, []byte(msg))
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}
