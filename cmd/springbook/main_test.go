package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syuparn/springbook"
	"github.com/syuparn/springbook/internal/mysqltest"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	serverPort, teardown := mysqltest.StartServer(t, "springbook")
	defer teardown()
	setPort(t, serverPort)

	m := springbook.NewDConnectionMaker(serverPort)
	db, err := m.MakeConnection()
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE `users` (" +
		"`id` VARCHAR(10) PRIMARY KEY, " +
		"`name` VARCHAR(20) NOT NULL, " +
		"`password` VARCHAR(10) NOT NULL)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO `users` VALUES ('gyumee', 'Sungchul', 'springno1')")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// run
	err = run(ctx)
	require.NoError(t, err)

	// only the registered user is left
	users, err := springbook.NewUserDao(m).List(ctx)
	require.NoError(t, err)
	require.Equal(t, []*springbook.User{
		{ID: "whiteship", Name: "Keesun", Password: "married"},
	}, users)
}

func TestPing(t *testing.T) {
	serverPort, teardown := mysqltest.StartServer(t, "springbook")
	defer teardown()
	setPort(t, serverPort)

	require.NoError(t, pingCmd.RunE(pingCmd, nil))
}

func TestPingEndpointDown(t *testing.T) {
	setPort(t, mysqltest.FreePort(t))

	err := pingCmd.RunE(pingCmd, nil)

	require.ErrorIs(t, err, springbook.ErrConnectionFailed)
}

func setPort(t *testing.T, p int) {
	old := port
	port = p
	t.Cleanup(func() {
		port = old
	})
}
