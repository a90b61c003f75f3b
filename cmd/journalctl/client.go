package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

type entry struct {
	ID            string  `json:"id"`
	Body          string  `json:"body"`
	Sentiment     *string `json:"sentiment"`
	Timestamp     string  `json:"timestamp"`
	LastTimestamp *string `json:"last_timestamp,omitempty"`
}

type submission struct {
	ID          string  `json:"id"`
	Sentiment   *string `json:"sentiment"`
	Affirmation string  `json:"affirmation"`
	Result      string  `json:"result"`
	Unscored    string  `json:"unscored"`
}

type apiError struct {
	Message string `json:"message"`
}

type moodSummary struct {
	Lowest struct {
		Text string `json:"text"`
	} `json:"lowest"`
	Highest struct {
		Text string `json:"text"`
	} `json:"highest"`
	Average struct {
		Text string `json:"text"`
	} `json:"average"`
}

func newClient(apiURL string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(apiURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
}

// check turns a non-2xx response into an error carrying the server message.
func check(resp *resty.Response, want int) error {
	if resp.StatusCode() == want {
		return nil
	}
	var e apiError
	if json.Unmarshal(resp.Body(), &e) == nil && e.Message != "" {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), e.Message)
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), string(resp.Body()))
}

func sentimentText(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func runAdd(c *resty.Client, text string, out io.Writer) error {
	var sub submission
	resp, err := c.R().SetBody(map[string]string{"body": text}).SetResult(&sub).Post("/api/entries")
	if err != nil {
		return err
	}
	if err := check(resp, http.StatusCreated); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%s (id %s, sentiment %s)\n", sub.Result, sub.ID, sentimentText(sub.Sentiment))
	if sub.Affirmation != "" {
		_, _ = fmt.Fprintln(out, sub.Affirmation)
	}
	return nil
}

func runList(c *resty.Client, out io.Writer) error {
	var list struct {
		Entries []entry `json:"entries"`
		Count   int     `json:"count"`
	}
	resp, err := c.R().SetResult(&list).Get("/api/entries")
	if err != nil {
		return err
	}
	if err := check(resp, http.StatusOK); err != nil {
		return err
	}
	for _, e := range list.Entries {
		_, _ = fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", e.ID, e.Timestamp, sentimentText(e.Sentiment), e.Body)
	}
	_, _ = fmt.Fprintf(out, "%d entries\n", list.Count)
	return nil
}

func printEntry(out io.Writer, e entry) {
	_, _ = fmt.Fprintf(out, "ID:        %s\nTimestamp: %s\n", e.ID, e.Timestamp)
	if e.LastTimestamp != nil {
		_, _ = fmt.Fprintf(out, "Edited:    %s\n", *e.LastTimestamp)
	}
	_, _ = fmt.Fprintf(out, "Sentiment: %s\n\n%s\n", sentimentText(e.Sentiment), e.Body)
}

func runGet(c *resty.Client, id string, out io.Writer) error {
	var e entry
	resp, err := c.R().SetPathParam("id", id).SetResult(&e).Get("/api/entries/{id}")
	if err != nil {
		return err
	}
	if err := check(resp, http.StatusOK); err != nil {
		return err
	}
	printEntry(out, e)
	return nil
}

func runEdit(c *resty.Client, id, text string, out io.Writer) error {
	var e entry
	resp, err := c.R().SetPathParam("id", id).SetBody(map[string]string{"body": text}).SetResult(&e).Put("/api/entries/{id}")
	if err != nil {
		return err
	}
	if err := check(resp, http.StatusOK); err != nil {
		return err
	}
	printEntry(out, e)
	return nil
}

func runDelete(c *resty.Client, id string, out io.Writer) error {
	resp, err := c.R().SetPathParam("id", id).Delete("/api/entries/{id}")
	if err != nil {
		return err
	}
	if err := check(resp, http.StatusNoContent); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "deleted %s\n", id)
	return nil
}

func runMood(c *resty.Client, out io.Writer) error {
	var m moodSummary
	resp, err := c.R().SetResult(&m).Get("/api/mood")
	if err != nil {
		return err
	}
	if err := check(resp, http.StatusOK); err != nil {
		return err
	}
	_, _ = fmt.Fprint(out, m.Lowest.Text)
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprint(out, m.Highest.Text)
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, m.Average.Text)
	return nil
}
