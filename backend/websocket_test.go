// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialFeed(t *testing.T, httpURL, gameID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(httpURL, "http") + "/api/v1/games/" + gameID + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	// Give the handler a moment to register the client with the hub.
	time.Sleep(50 * time.Millisecond)
	return conn
}

func TestLiveFeedBroadcast(t *testing.T) {
	srv, app := testServer(t)

	g, err := app.CreateGame(TeamVarsity, GameMeta{Opponent: "Lincoln"})
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}
	conn := dialFeed(t, srv.URL, g.ID)

	if _, err := app.ApplyEvent(g.ID, SideHome, g.HomeRosterIds[0], StatDelta{StatPts: 2, StatFGM: 1, StatFGA: 1}, "+2"); err != nil {
		t.Fatalf("ApplyEvent failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}

	var msg FeedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if msg.Type != msgTypeGameUpdate {
		t.Errorf("Unexpected message type: %s", msg.Type)
	}
	if msg.Game == nil || msg.Game.ScoreHome != 2 {
		t.Errorf("Unexpected game payload: %+v", msg.Game)
	}
}

func TestLiveFeedFiltersByGame(t *testing.T) {
	srv, app := testServer(t)

	g1, _ := app.CreateGame(TeamVarsity, GameMeta{Opponent: "A"})
	g2, _ := app.CreateGame(TeamVarsity, GameMeta{Opponent: "B"})
	conn := dialFeed(t, srv.URL, g1.ID)

	// A mutation of another game must not reach this spectator.
	app.ApplyEvent(g2.ID, SideHome, g2.HomeRosterIds[0], StatDelta{StatTO: 1}, "TO")
	// A mutation of the watched game must.
	app.ApplyEvent(g1.ID, SideHome, g1.HomeRosterIds[0], StatDelta{StatPF: 1}, "PF")

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	var msg FeedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if msg.Game.ID != g1.ID {
		t.Errorf("Received update for wrong game: %s", msg.Game.ID)
	}
	if msg.Game.LinesHome[g1.HomeRosterIds[0]].PF != 1 {
		t.Errorf("Unexpected payload: %+v", msg.Game)
	}
}

func TestLiveFeedUnknownGame(t *testing.T) {
	srv, _ := testServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/games/nope/live"
	if _, _, err := websocket.DefaultDialer.Dial(wsURL, nil); err == nil {
		t.Errorf("Expected dial to fail for unknown game")
	}
}
