// authctl is a small admin client for the authentication server. It drives
// the HTTP API for account management, prompting for the password without
// echoing it.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mkalvans/authcore/internal/common"
)

func main() {
	addr := flag.String("a", "http://localhost:3000", "server base URL")
	captchaToken := flag.String("c", "", "captcha token for signup")
	twoFA := flag.Bool("2fa", false, "require a second factor for the new account")
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd != "signup" && cmd != "delete" {
		fmt.Fprintln(os.Stderr, "usage: authctl [flags] signup|delete")
		flag.PrintDefaults()
		os.Exit(2)
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Enter user name (email)")
	email, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	email = strings.TrimSpace(email)

	fmt.Println("Enter password")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	defer common.WipeByteArray(password)

	switch cmd {
	case "signup":
		err = signUp(*addr, email, string(password), *twoFA, *captchaToken)
	case "delete":
		err = deleteAccount(*addr, email, string(password))
	}
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	fmt.Println("Success!")
}

func signUp(addr, email, password string, twoFA bool, captchaToken string) error {
	body := map[string]any{
		"email":          email,
		"password":       password,
		"requires2FA":    twoFA,
		"recaptchaToken": captchaToken,
	}
	return call(http.MethodPost, addr+"/signup", body, http.StatusCreated)
}

func deleteAccount(addr, email, password string) error {
	body := map[string]any{
		"email":    email,
		"password": password,
	}
	return call(http.MethodDelete, addr+"/delete-account", body, http.StatusOK)
}

func call(method, url string, body any, wantStatus int) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var er struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &er) == nil && er.Error != "" {
			return fmt.Errorf("server refused: %s", er.Error)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
