package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	ltypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/thehangoversessions/sessionsapi/ops"
)

// SessionsFunc invokes the deployed API function with a command line event.
type SessionsFunc interface {
	Invoke(ctx context.Context, request, response any) error
}

type SessionsFactoryFunc func(stackName string) (SessionsFunc, error)

type SessionsLambda struct {
	Client LambdaClient
	Arn    string
}

func NewSessionsLambda(stackName string) (SessionsFunc, error) {
	ctx := context.Background()
	arn, err := GetLambdaArn(ctx, NewCloudFormationClient(), stackName)

	if err != nil {
		return nil, err
	}
	return &SessionsLambda{Client: NewLambdaClient(), Arn: arn}, nil
}

// Invoke calls the Lambda function synchronously and unmarshals its result.
//
// - https://pkg.go.dev/github.com/aws/aws-sdk-go-v2/service/lambda#Client.Invoke
// - https://docs.aws.amazon.com/lambda/latest/dg/invocation-sync.html
func (l *SessionsLambda) Invoke(
	ctx context.Context, request, response any,
) (err error) {
	var payload []byte

	if payload, err = json.Marshal(request); err != nil {
		return fmt.Errorf("error creating Lambda payload: %w", err)
	}

	input := &lambda.InvokeInput{
		FunctionName: aws.String(l.Arn),
		LogType:      ltypes.LogTypeTail,
		Payload:      payload,
	}
	var output *lambda.InvokeOutput

	if output, err = l.Client.Invoke(ctx, input); err != nil {
		err = fmt.Errorf("error invoking Lambda function: %w", ops.AwsError(err))
	} else if output.StatusCode != http.StatusOK {
		const errFmt = "received non-200 response: %s"
		err = fmt.Errorf(errFmt, http.StatusText(int(output.StatusCode)))
	} else if output.FunctionError != nil {
		const errFmt = "error executing Lambda function: %s: %s"
		funcErr := aws.ToString(output.FunctionError)
		err = fmt.Errorf(errFmt, funcErr, string(output.Payload))
	} else if err = json.Unmarshal(output.Payload, response); err != nil {
		const errFmt = "failed to unmarshal Lambda response payload: %w: %s"
		err = fmt.Errorf(errFmt, err, string(output.Payload))
	}
	return
}
