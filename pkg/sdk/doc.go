// Package bcpredict embeds the breast cancer classifier in a Go program.
//
// The client loads a model artifact once (from a file, from memory, or from a
// Redis/Valkey key written by the trainer) and serves predictions in-process
// with the same validation rules as the HTTP API.
//
//	client, _ := bcpredict.New(ctx, bcpredict.WithArtifactFile("models/model.json"))
//	defer client.Close()
//
//	p, err := client.PredictNamed(ctx, map[string]float64{"mean radius": 14.0, ...})
//	if errors.Is(err, bcpredict.ErrMissingFeatures) {
//	    var mf *bcpredict.MissingFeaturesError
//	    errors.As(err, &mf)
//	    fmt.Println(mf.Missing)
//	}
//
// Positional input skips name validation but must match the model width:
//
//	p, err := client.Predict(ctx, values)
package bcpredict
