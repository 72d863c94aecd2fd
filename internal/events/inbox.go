package events

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"unicode"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// InboxCollector searches an IMAP mailbox for shipping-related subjects and
// summarizes each match. No matches is a normal, empty result.
type InboxCollector struct {
	host        string
	port        int
	username    string
	password    string
	mailbox     string
	searchTerms []string
}

// NewInbox constructs an inbox collector.
func NewInbox(host string, port int, username, password, mailbox string, searchTerms []string) (*InboxCollector, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, errors.New("imap host required")
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, errors.New("imap credentials required")
	}
	if port <= 0 {
		port = 993
	}
	if strings.TrimSpace(mailbox) == "" {
		mailbox = "INBOX"
	}
	return &InboxCollector{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		mailbox:     mailbox,
		searchTerms: searchTerms,
	}, nil
}

// Name implements Collector.
func (c *InboxCollector) Name() string { return "inbox" }

// Collect returns one summary string per matched message.
func (c *InboxCollector) Collect(ctx context.Context) ([]string, error) {
	client, err := imapclient.DialTLS(net.JoinHostPort(c.host, strconv.Itoa(c.port)), nil)
	if err != nil {
		return nil, fmt.Errorf("dial imap: %w", err)
	}
	defer client.Close()

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}
	defer client.Logout()

	if _, err := client.Select(c.mailbox, nil).Wait(); err != nil {
		return nil, fmt.Errorf("select %s: %w", c.mailbox, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	searchData, err := client.Search(subjectCriteria(c.searchTerms), nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}
	seqNums := searchData.AllSeqNums()
	if len(seqNums) == 0 {
		return nil, nil
	}

	messages, err := client.Fetch(imap.SeqSetNum(seqNums...), &imap.FetchOptions{Envelope: true}).Collect()
	if err != nil {
		return nil, fmt.Errorf("imap fetch: %w", err)
	}

	summaries := make([]string, 0, len(messages))
	for _, message := range messages {
		envelope := message.Envelope
		if envelope == nil {
			continue
		}
		sender := "an unknown sender"
		if len(envelope.From) > 0 {
			if name := strings.TrimSpace(envelope.From[0].Name); name != "" {
				sender = name
			} else {
				sender = envelope.From[0].Addr()
			}
		}
		summaries = append(summaries, strings.Join([]string{
			fmt.Sprintf("An email from %s", sender),
			fmt.Sprintf("with a subject of '%s'", strings.TrimSpace(stripEmoji(envelope.Subject))),
			fmt.Sprintf("was received at %s", envelope.Date.Format("01/02/06 03:04:05 PM")),
		}, " "))
	}
	return summaries, nil
}

// subjectCriteria builds an OR tree matching any search term against the
// Subject header. IMAP SEARCH matches headers case-insensitively, so one
// criterion per term is enough.
func subjectCriteria(terms []string) *imap.SearchCriteria {
	cleaned := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		folded := strings.ToLower(strings.TrimSpace(term))
		if folded == "" {
			continue
		}
		if _, ok := seen[folded]; ok {
			continue
		}
		seen[folded] = struct{}{}
		cleaned = append(cleaned, strings.TrimSpace(term))
	}
	if len(cleaned) == 0 {
		return &imap.SearchCriteria{}
	}

	criteria := subjectCriterion(cleaned[0])
	for _, term := range cleaned[1:] {
		criteria = imap.SearchCriteria{
			Or: [][2]imap.SearchCriteria{{criteria, subjectCriterion(term)}},
		}
	}
	return &criteria
}

func subjectCriterion(term string) imap.SearchCriteria {
	return imap.SearchCriteria{
		Header: []imap.SearchCriteriaHeaderField{{Key: "Subject", Value: term}},
	}
}

// stripEmoji drops pictographic runes that read poorly in narrated text.
func stripEmoji(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.In(r, unicode.So, unicode.Sk) || r >= 0x1F000 {
			return -1
		}
		return r
	}, value)
}
