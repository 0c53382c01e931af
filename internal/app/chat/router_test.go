package chat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chatrelay/internal/app/registry"
	"chatrelay/internal/app/user"
)

// staticMembers is a fixed membership snapshot.
type staticMembers map[string][]user.User

func (s staticMembers) GetUsersInRoom(room string) []user.User {
	return s[user.Normalize(room)]
}

func TestRouter_TargetsForRoom(t *testing.T) {
	req := require.New(t)
	router := NewRouter(staticMembers{
		"lobby": {
			{ConnID: "a", Username: "Alice", Room: "Lobby"},
			{ConnID: "b", Username: "Bob", Room: "lobby"},
		},
	})

	req.Equal([]string{"a", "b"}, router.TargetsForRoom("LOBBY"))
	req.Equal([]string{"b"}, router.TargetsForRoomExcluding("lobby", "a"))
	req.Equal([]string{"a", "b"}, router.TargetsForRoomExcluding("lobby", "zzz"))
	req.Empty(router.TargetsForRoom("attic"))
	req.Empty(router.TargetsForRoomExcluding("attic", "a"))
}

func TestRouter_RoomInfo(t *testing.T) {
	req := require.New(t)
	router := NewRouter(staticMembers{
		"lobby": {
			{ConnID: "a", Username: "Alice", Room: "Lobby"},
			{ConnID: "b", Username: "Bob", Room: "LOBBY"},
		},
	})

	info := router.RoomInfo("lobby")

	req.Equal("Lobby", info.Room)
	req.Len(info.Users, 2)
	req.Equal("Alice", info.Users[0].Username)

	empty := router.RoomInfo("attic")
	req.Equal("attic", empty.Room)
	req.Empty(empty.Users)
}

func TestRouter_ReadsFreshSnapshots(t *testing.T) {
	req := require.New(t)
	reg := registry.New()
	router := NewRouter(reg)

	_, err := reg.AddUser("a", "Alice", "lobby")
	req.Nil(err)
	req.Equal([]string{"a"}, router.TargetsForRoom("lobby"))

	_, err = reg.AddUser("b", "Bob", "lobby")
	req.Nil(err)
	req.Equal([]string{"a", "b"}, router.TargetsForRoom("lobby"))

	reg.RemoveUser("a")
	req.Equal([]string{"b"}, router.TargetsForRoom("lobby"))
}
