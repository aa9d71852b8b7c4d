// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>
// Copyright 2021 - 2022 Mendel Greenberg <mendel@chabad360.me>

//Package osc decodes and encodes OpenSoundControl messages and carries them over UDP.
//
//This implementation follows a subset of the Open Sound Control 1.0 Specification (http://opensoundcontrol.org/spec-1_0.html).
//
//Features
//
//- Supports OSC messages with the following TypeTags:
//
//	'i' (int32)
//	'f' (float32)
//	's' (string)
//
//- Bundles and time tags are not supported; every datagram is one message.
//
//Messages
//
//An OSC message consists of an OSC address pattern, a type tag string and zero or more OSC arguments.
//Every field is 32-bit aligned. Decoding is strict about declared fields running past the end of
//the datagram and lenient about bytes following the last argument.
//
//Usage
//
//OSC client example:
//  client, _ := osc.Dial("localhost:17999")
//  client.Send(osc.NewMessage("/obs/go", float32(1)))
//
//OSC server example:
//  server := &osc.Server{
//      Addr: "127.0.0.1:17999",
//      Handler: osc.HandlerFunc(func(ctx context.Context, data []byte, addr net.Addr) {
//          msg, err := osc.Decode(data)
//          ...
//      }),
//  }
//  server.ListenAndServe(ctx)
package osc
