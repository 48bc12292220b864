package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/naveenspark/stageremote/pkg/client"
)

const deepLinkScheme = "stageremote"

// legacyDeepLinkScheme is the scheme the mobile widgets emit.
const legacyDeepLinkScheme = "stagetimerremote"

// parseDeepLink returns the action of a stageremote://ACTION link.
func parseDeepLink(uri string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return "", fmt.Errorf("parse deep link: %w", err)
	}
	if !strings.EqualFold(u.Scheme, deepLinkScheme) && !strings.EqualFold(u.Scheme, legacyDeepLinkScheme) {
		return "", fmt.Errorf("not a %s:// link: %q", deepLinkScheme, uri)
	}
	// stageremote://toggle puts the action in the host; stageremote:toggle
	// and stageremote:///toggle put it in the path.
	action := u.Host
	if action == "" {
		action = strings.Trim(u.Opaque+u.Path, "/")
	}
	return strings.ToLower(action), nil
}

// deepLinkAction maps the widget-style link actions to dispatcher calls.
// Anything else (including "open") is not an action.
func deepLinkAction(c *client.Client, action string) (func(context.Context) error, bool) {
	switch action {
	case "toggle", "stop", "next", "previous":
		return actionFunc(c, action)
	}
	return nil, false
}
