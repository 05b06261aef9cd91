package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"roleswap/bot"
	"roleswap/web"
)

const storePathEnvVar = "ROLESWAP_STORE_PATH"
const storePathDefault = "roleswap.json"
const httpAddrEnvVar = "ROLESWAP_HTTP_ADDR"
const httpAddrDefault = ":10000"

func main() {
	err := godotenv.Load()
	if err != nil {
		logrus.Warnf("Failed to load .env file due to error %v", err)
	}

	storePath, exists := os.LookupEnv(storePathEnvVar)
	if !exists {
		logrus.Infof("Rule file path was not provided, falling back to default `%v`", storePathDefault)
		storePath = storePathDefault
	}

	bot, err := bot.Init(storePath)
	if err != nil {
		logrus.Fatalf("Failed to start discord bot")
	}
	logrus.Infof("Bot is now running. Press ^+C to exit.")
	addURL, err := bot.BotAddURL()
	if err != nil {
		logrus.Errorf("Failed to generate bot add URL due to error %v", err)
	} else {
		logrus.Infof("Go to `%v` to add bot to your server", addURL)
	}

	httpAddr, exists := os.LookupEnv(httpAddrEnvVar)
	if !exists {
		httpAddr = httpAddrDefault
	}
	statusServer := web.Start(httpAddr, bot.Rules)

	closeChan := make(chan os.Signal, 1)
	signal.Notify(closeChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-closeChan

	statusServer.Close()
	bot.Close()
	fmt.Println("Goodbye!")
}
