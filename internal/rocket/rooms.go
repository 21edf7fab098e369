package rocket

import (
	"context"
	"net/url"
)

type wireChannelsList struct {
	Channels *[]wireRoom `json:"channels"`
	Count    int         `json:"count"`
}

type wireChannel struct {
	Channel *wireRoom `json:"channel"`
}

// ListPublicChannels returns all public channels visible to the service
// account.
func (c *Client) ListPublicChannels(ctx context.Context) ([]Room, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	var payload wireChannelsList
	if err := c.getJSON(ctx, endpointChannelsList, nil, KindChannelList, &payload); err != nil {
		return nil, err
	}
	if payload.Channels == nil {
		return nil, newError(KindChannelList, nil, "response missing channels")
	}

	rooms := make([]Room, 0, len(*payload.Channels))
	for _, w := range *payload.Channels {
		room, err := w.toRoom()
		if err != nil {
			return nil, newError(KindChannelList, err, "translate channel: %v", err)
		}
		rooms = append(rooms, room)
	}

	if c.log != nil {
		c.log.Debug().Int("count", len(rooms)).Msg("listed public channels")
	}
	return rooms, nil
}

// CreateChannel creates a public channel with the given initial members
// (usernames). The description is omitted from the request entirely when
// empty. A name collision upstream comes back without a channel object and
// surfaces as a KindChannelCreate error.
func (c *Client) CreateChannel(ctx context.Context, name string, members []string, readOnly bool, description string) (Room, error) {
	if err := c.ensureSession(ctx); err != nil {
		return Room{}, err
	}

	if members == nil {
		members = []string{}
	}
	body := map[string]any{
		"name":     name,
		"members":  members,
		"readOnly": readOnly,
	}
	if description != "" {
		body["description"] = description
	}

	var payload wireChannel
	if err := c.postJSON(ctx, endpointChannelsCreate, body, KindChannelCreate, &payload); err != nil {
		return Room{}, err
	}
	if payload.Channel == nil {
		return Room{}, newError(KindChannelCreate, nil, "response missing channel")
	}

	room, err := payload.Channel.toRoom()
	if err != nil {
		return Room{}, newError(KindChannelCreate, err, "translate channel: %v", err)
	}

	if c.log != nil {
		c.log.Debug().Str("room_id", room.ID).Str("name", room.Name).Msg("channel created")
	}
	return room, nil
}

// GetChannelInfo fetches a single channel by room id.
func (c *Client) GetChannelInfo(ctx context.Context, roomID string) (Room, error) {
	if err := c.ensureSession(ctx); err != nil {
		return Room{}, err
	}

	query := url.Values{"roomId": []string{roomID}}

	var payload wireChannel
	if err := c.getJSON(ctx, endpointChannelsInfo, query, KindChannelInfo, &payload); err != nil {
		return Room{}, err
	}
	if payload.Channel == nil {
		return Room{}, newError(KindChannelInfo, nil, "response missing channel")
	}

	room, err := payload.Channel.toRoom()
	if err != nil {
		return Room{}, newError(KindChannelInfo, err, "translate channel: %v", err)
	}
	return room, nil
}
